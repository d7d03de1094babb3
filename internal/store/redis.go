package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"kindred/internal/observability"
)

const changeChannelPrefix = "entity:"

// DefaultMaxRetries bounds the optimistic retry loop when no budget is
// configured.
const DefaultMaxRetries = 16

// RedisStore implements Store on a Redis backend. Transactions use
// WATCH/MULTI/EXEC: the key is watched, the update function runs against
// the latest value, and the write commits only if no other client touched
// the key in between.
type RedisStore struct {
	client     *redis.Client
	maxRetries int
}

// NewRedisStore returns a store over the given client. maxRetries <= 0
// selects DefaultMaxRetries.
func NewRedisStore(client *redis.Client, maxRetries int) *RedisStore {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &RedisStore{client: client, maxRetries: maxRetries}
}

// Connect dials Redis at addr (host:port or redis:// URL) and verifies the
// connection.
func Connect(addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := observability.GetTraceLayer().TraceStoreOperation(ctx, "get", key)
	defer span.End()

	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Write(ctx context.Context, key string, value []byte) error {
	ctx, span := observability.GetTraceLayer().TraceStoreOperation(ctx, "write", key)
	defer span.End()

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		observability.RecordErrorInContext(ctx, err)
		return err
	}
	s.publish(ctx, key, value)
	return nil
}

func (s *RedisStore) Transact(ctx context.Context, key string, fn UpdateFunc) error {
	ctx, span := observability.GetTraceLayer().TraceStoreOperation(ctx, "transact", key)
	defer span.End()

	entity := entityLabel(key)
	timer := time.Now()
	defer func() {
		observability.TransactLatency.WithLabelValues(entity).Observe(time.Since(timer).Seconds())
	}()

	var committed []byte
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err == nil {
			committed = next
		}
		return err
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			s.publish(ctx, key, committed)
			return nil
		case errors.Is(err, ErrNoChange):
			return nil
		case errors.Is(err, redis.TxFailedErr):
			// Another client committed first; re-read and retry.
			observability.TransactRetries.WithLabelValues(entity).Inc()
			continue
		default:
			observability.RecordErrorInContext(ctx, err)
			return err
		}
	}

	observability.TransactFailures.WithLabelValues(entity).Inc()
	observability.RecordErrorInContext(ctx, ErrConflict)
	return ErrConflict
}

// Subscribe delivers committed changes for keys matching pattern over
// Redis pub/sub. Delivery is at-most-once; a subscriber that needs the
// current state should Get after subscribing.
func (s *RedisStore) Subscribe(ctx context.Context, pattern string, onChange ChangeHandler) (func(), error) {
	sub := s.client.PSubscribe(ctx, changeChannelPrefix+pattern)
	ch := sub.Channel()

	done := make(chan struct{})
	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in store subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onChange(strings.TrimPrefix(msg.Channel, changeChannelPrefix), []byte(msg.Payload))
				}()
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() { close(done) })
	}
	return stop, nil
}

// publish is best-effort; a missed change event only delays observers
// until their next read.
func (s *RedisStore) publish(ctx context.Context, key string, value []byte) {
	if err := s.client.Publish(ctx, changeChannelPrefix+key, value).Err(); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "change publish failed",
			"key", key, "err", err)
	}
}

// entityLabel reduces a document key to its kind for metric labels
// ("post:42" -> "post").
func entityLabel(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
