package session

import (
	"context"
	"sync"
	"time"
)

var (
	_ EnumerableStore[any] = (*MemoryStore[any])(nil)
	_ ClearableStore[any]  = (*MemoryStore[any])(nil)
)

type memoryEntry[Data any] struct {
	data      Data
	expiresAt time.Time
}

func (e memoryEntry[Data]) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryStore is an in-memory Store implementation with per-entry TTL,
// intended for development, testing, and single-process deployments. It
// implements the full optional capability set (enumeration and clearing).
type MemoryStore[Data any] struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry[Data]
	ttl       time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates an in-memory store. A zero ttl keeps entries until
// destroyed. A positive cleanupInterval starts a background sweep of expired
// entries; call Close to stop it.
func NewMemoryStore[Data any](ttl, cleanupInterval time.Duration) *MemoryStore[Data] {
	store := &MemoryStore[Data]{
		entries: make(map[string]memoryEntry[Data]),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Get retrieves the data for an identifier, or ErrNotFound when absent or
// expired.
func (m *MemoryStore[Data]) Get(_ context.Context, id string) (Data, error) {
	m.mu.RLock()
	entry, exists := m.entries[id]
	m.mu.RUnlock()

	var zero Data
	if !exists {
		return zero, ErrNotFound
	}
	if entry.expired() {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have replaced
		// the entry with a fresh one since the read.
		if current, ok := m.entries[id]; ok && current.expired() {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return zero, ErrNotFound
	}

	return entry.data, nil
}

// Set stores the data under the identifier, resetting its TTL.
func (m *MemoryStore[Data]) Set(_ context.Context, id string, data Data) error {
	entry := memoryEntry[Data]{data: data}
	if m.ttl > 0 {
		entry.expiresAt = time.Now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[id] = entry
	m.mu.Unlock()
	return nil
}

// Destroy removes the entry for the identifier. Destroying an absent entry
// is not an error.
func (m *MemoryStore[Data]) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Touch refreshes the entry's expiry by rewriting it with the given data.
func (m *MemoryStore[Data]) Touch(ctx context.Context, id string, data Data) error {
	return m.Set(ctx, id, data)
}

// All returns the data of every live entry.
func (m *MemoryStore[Data]) All(_ context.Context) ([]Data, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]Data, 0, len(m.entries))
	for _, entry := range m.entries {
		if !entry.expired() {
			all = append(all, entry.data)
		}
	}
	return all, nil
}

// Len returns the number of live entries.
func (m *MemoryStore[Data]) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entry := range m.entries {
		if !entry.expired() {
			count++
		}
	}
	return count, nil
}

// Clear removes all entries.
func (m *MemoryStore[Data]) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry[Data])
	m.mu.Unlock()
	return nil
}

// Close stops the background cleanup loop, if one was started. It is safe to
// call Close multiple times and from multiple goroutines.
func (m *MemoryStore[Data]) Close() {
	m.closeOnce.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
}

func (m *MemoryStore[Data]) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.removeExpired()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore[Data]) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, entry := range m.entries {
		if entry.expired() {
			delete(m.entries, id)
		}
	}
}
