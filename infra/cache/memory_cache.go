package cache

import (
	"context"
	"sync"

	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/domain"
)

// MemoryStorage implements cache.Storage with an in-process map.
// Stale entries are kept until they are overwritten or cleared.
type MemoryStorage struct {
	entries map[string]domain.CacheEntry
	mu      sync.RWMutex
}

var _ cache.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]domain.CacheEntry)}
}

// Load returns the entry stored under key
func (m *MemoryStorage) Load(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok, nil
}

// Save replaces the entry for entry.Key
func (m *MemoryStorage) Save(_ context.Context, entry domain.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Key] = entry
	return nil
}

// Clear removes every entry
func (m *MemoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]domain.CacheEntry)
	return nil
}

// Keys lists the stored pair keys
func (m *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys, nil
}
