package feature

import (
	"context"

	"github.com/dmitrymomot/flagkit/pkg/cache"
)

// OverrideStore persists raw override values by key.
// Implementations own their locking; the last write they observe wins.
type OverrideStore interface {
	// Get returns the stored value and whether one exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// DefaultMemoryCapacity bounds the in-memory fallback store.
const DefaultMemoryCapacity = 1024

// MemoryStore is a process-local OverrideStore backed by an LRU cache.
// It is the fallback medium when no store is registered for a storage type.
type MemoryStore struct {
	entries *cache.LRUCache[string, string]
}

// NewMemoryStore creates a store holding at most capacity overrides.
// Non-positive capacities use DefaultMemoryCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{entries: cache.NewLRUCache[string, string](capacity)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.entries.Get(key)
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.entries.Put(key, value)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// Len returns the number of stored overrides.
func (m *MemoryStore) Len() int {
	return m.entries.Len()
}
