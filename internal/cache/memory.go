package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryProvider is a bounded in-memory Provider with per-key TTLs.
// Expired entries are dropped lazily on read and when capacity is hit.
type MemoryProvider struct {
	mu       sync.Mutex
	data     map[string]entry
	maxItems int
}

// NewMemoryProvider creates a cache holding up to maxItems entries.
func NewMemoryProvider(maxItems int) *MemoryProvider {
	if maxItems <= 0 {
		maxItems = 256
	}
	return &MemoryProvider{
		data:     make(map[string]entry),
		maxItems: maxItems,
	}
}

// Get returns the stored value or ErrCacheMiss.
func (m *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !it.expiresAt.IsZero() && time.Now().After(it.expiresAt) {
		delete(m.data, key)
		return nil, ErrCacheMiss
	}
	value := make([]byte, len(it.value))
	copy(value, it.value)
	return value, nil
}

// Set stores a copy of value under key. A non-positive TTL stores the entry
// without expiry.
func (m *MemoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) >= m.maxItems {
		m.evictLocked()
	}

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = entry{value: stored, expiresAt: expires}
	return nil
}

// Del removes an entry.
func (m *MemoryProvider) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close releases the map.
func (m *MemoryProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]entry)
	return nil
}

// evictLocked drops expired entries first, then an arbitrary entry if the
// cache is still full. Callers hold the lock.
func (m *MemoryProvider) evictLocked() {
	now := time.Now()
	for key, it := range m.data {
		if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
			delete(m.data, key)
		}
	}
	if len(m.data) < m.maxItems {
		return
	}
	for key := range m.data {
		delete(m.data, key)
		return
	}
}
