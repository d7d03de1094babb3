// Package store implements the key-addressed entity store backing the
// engagement engine: JSON documents at string keys, per-key optimistic
// transactions with a bounded retry budget, and change subscriptions.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no document.
var ErrNotFound = errors.New("store: key not found")

// ErrNoChange may be returned by an UpdateFunc to commit nothing. The
// transaction succeeds without writing, so idempotent no-ops never
// contend with concurrent writers.
var ErrNoChange = errors.New("store: no change")

// ErrConflict is returned by Transact once the retry budget is exhausted.
// The entity is guaranteed unchanged by the failed call.
var ErrConflict = errors.New("store: transaction conflict budget exhausted")

// UpdateFunc transforms the current document (nil when the key is absent)
// into the next one. It may run multiple times and must be free of side
// effects beyond its return value.
type UpdateFunc func(current []byte) ([]byte, error)

// ChangeHandler receives the committed document for a changed key.
type ChangeHandler func(key string, value []byte)

// Store is the entity store interface consumed by the repositories.
type Store interface {
	// Get returns the document at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Write stores the document at key without conflict detection.
	// Last writer wins; reserved for advisory fields.
	Write(ctx context.Context, key string, value []byte) error

	// Transact applies fn to the freshest document at key and commits
	// the result atomically with respect to other transactions on the
	// same key, retrying on conflict up to the configured budget.
	Transact(ctx context.Context, key string, fn UpdateFunc) error

	// Subscribe invokes onChange for every committed change to keys
	// matching pattern ("*" wildcards) until the returned stop function
	// is called or ctx is cancelled.
	Subscribe(ctx context.Context, pattern string, onChange ChangeHandler) (func(), error)
}
