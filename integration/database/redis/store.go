package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/core/session"
)

const (
	// defaultPrefix namespaces session keys in the shared keyspace.
	defaultPrefix = "sess"
	// defaultTTL applies when no TTL policy is configured (one day).
	defaultTTL = 24 * time.Hour
	// defaultScanBatchSize is the COUNT hint for SCAN-based operations.
	defaultScanBatchSize = 1000
)

var (
	_ session.EnumerableStore[any] = (*Store[any])(nil)
	_ session.ClearableStore[any]  = (*Store[any])(nil)
)

// TTLFunc computes the time-to-live for a session entry from its data,
// allowing e.g. longer retention for authenticated sessions.
type TTLFunc[Data any] func(data Data) time.Duration

// Store adapts a Redis client to the session store contract. Every key is
// namespaced under a configurable prefix joined by ':', data is serialized
// as JSON, and entry expiry rides on Redis-native TTLs.
//
// Touch is implemented as a full rewrite: re-setting the value bumps the
// backend TTL. That trades some write amplification for not depending on a
// native touch primitive.
type Store[Data any] struct {
	client        redis.UniversalClient
	prefix        string
	ttl           time.Duration
	ttlFn         TTLFunc[Data]
	scanBatchSize int64
}

// StoreOption configures a Store.
type StoreOption[Data any] func(*Store[Data])

// WithPrefix sets the key namespace (default "sess").
func WithPrefix[Data any](prefix string) StoreOption[Data] {
	return func(s *Store[Data]) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL sets a fixed time-to-live for all entries (default one day).
func WithTTL[Data any](ttl time.Duration) StoreOption[Data] {
	return func(s *Store[Data]) {
		s.ttl = ttl
	}
}

// WithTTLFunc derives each entry's time-to-live from its data. It takes
// precedence over WithTTL.
func WithTTLFunc[Data any](fn TTLFunc[Data]) StoreOption[Data] {
	return func(s *Store[Data]) {
		s.ttlFn = fn
	}
}

// WithScanBatchSize sets the COUNT hint for SCAN-based operations.
func WithScanBatchSize[Data any](size int) StoreOption[Data] {
	return func(s *Store[Data]) {
		if size > 0 {
			s.scanBatchSize = int64(size)
		}
	}
}

// NewStore creates a Redis-backed session store.
func NewStore[Data any](client redis.UniversalClient, opts ...StoreOption[Data]) *Store[Data] {
	store := &Store[Data]{
		client:        client,
		prefix:        defaultPrefix,
		ttl:           defaultTTL,
		scanBatchSize: defaultScanBatchSize,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// NewStoreFromConfig creates a Redis-backed session store applying the
// connection config's scan batch size.
func NewStoreFromConfig[Data any](client redis.UniversalClient, cfg Config, opts ...StoreOption[Data]) *Store[Data] {
	base := []StoreOption[Data]{WithScanBatchSize[Data](cfg.ScanBatchSize)}
	return NewStore(client, append(base, opts...)...)
}

// Get retrieves the data for an identifier, or session.ErrNotFound when the
// key is absent or expired.
func (s *Store[Data]) Get(ctx context.Context, id string) (Data, error) {
	var data Data

	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return data, session.ErrNotFound
		}
		return data, err
	}

	if err := json.Unmarshal(payload, &data); err != nil {
		return data, fmt.Errorf("decode session %q: %w", id, err)
	}
	return data, nil
}

// Set stores the data under the identifier with the effective TTL. An
// effective TTL of zero or below deletes the entry instead, because backends
// treat non-positive expirations ambiguously.
func (s *Store[Data]) Set(ctx context.Context, id string, data Data) error {
	ttl := s.ttlFor(data)
	if ttl <= 0 {
		return s.Destroy(ctx, id)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", id, err)
	}

	return s.client.Set(ctx, s.key(id), payload, ttl).Err()
}

// Destroy removes the entry for the identifier. Destroying an absent entry
// is not an error.
func (s *Store[Data]) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Touch refreshes the entry's backend TTL by rewriting it.
func (s *Store[Data]) Touch(ctx context.Context, id string, data Data) error {
	return s.Set(ctx, id, data)
}

// All returns the data of every session under this store's prefix. Entries
// expiring mid-scan are skipped.
func (s *Store[Data]) All(ctx context.Context) ([]Data, error) {
	var all []Data

	err := s.scanKeys(ctx, func(keys []string) error {
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}
		for _, value := range values {
			raw, ok := value.(string)
			if !ok {
				continue // expired between SCAN and MGET
			}
			var data Data
			if err := json.Unmarshal([]byte(raw), &data); err != nil {
				return fmt.Errorf("decode session payload: %w", err)
			}
			all = append(all, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Len returns the number of sessions under this store's prefix.
func (s *Store[Data]) Len(ctx context.Context) (int, error) {
	count := 0
	err := s.scanKeys(ctx, func(keys []string) error {
		count += len(keys)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Clear removes every session under this store's prefix, never touching keys
// outside the namespace.
func (s *Store[Data]) Clear(ctx context.Context) error {
	return s.scanKeys(ctx, func(keys []string) error {
		return s.client.Del(ctx, keys...).Err()
	})
}

func (s *Store[Data]) key(id string) string {
	return s.prefix + ":" + id
}

func (s *Store[Data]) ttlFor(data Data) time.Duration {
	if s.ttlFn != nil {
		return s.ttlFn(data)
	}
	return s.ttl
}

// scanKeys iterates all keys under the prefix in batches and invokes fn for
// each non-empty batch.
func (s *Store[Data]) scanKeys(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	pattern := s.prefix + ":*"

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, s.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
