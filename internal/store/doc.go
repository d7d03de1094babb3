package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetDoc reads and decodes the JSON document at key. Returns ErrNotFound
// when the key is absent.
func GetDoc[T any](ctx context.Context, s Store, key string) (*T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &doc, nil
}

// UpdateDoc runs a typed optimistic transaction on the JSON document at
// key. fn receives the decoded current document (the zero value when the
// key is absent, with exists false) and mutates it in place; the result
// is committed under the store's conflict-retry discipline. fn may return
// ErrNoChange to commit nothing.
func UpdateDoc[T any](ctx context.Context, s Store, key string, fn func(doc *T, exists bool) error) error {
	return s.Transact(ctx, key, func(current []byte) ([]byte, error) {
		var doc T
		exists := current != nil
		if exists {
			if err := json.Unmarshal(current, &doc); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		if err := fn(&doc, exists); err != nil {
			return nil, err
		}
		next, err := json.Marshal(&doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		return next, nil
	})
}

// WriteDoc encodes and stores the document at key without conflict
// detection.
func WriteDoc[T any](ctx context.Context, s Store, key string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Write(ctx, key, raw)
}
