package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemorySnapshotCache is a process-local SnapshotCache. It is suitable for
// single-instance deployments and tests; separate instances will each carry
// their own copy of the reports.
type InMemorySnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewInMemorySnapshotCache creates a new InMemorySnapshotCache
func NewInMemorySnapshotCache() *InMemorySnapshotCache {
	return &InMemorySnapshotCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached payload, expiring entries lazily on read
func (c *InMemorySnapshotCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores the payload under the key for the given TTL
func (c *InMemorySnapshotCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	copied := make([]byte, len(payload))
	copy(copied, payload)

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		payload:   copied,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Invalidate removes the given keys
func (c *InMemorySnapshotCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}

// Close clears all entries
func (c *InMemorySnapshotCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of live entries, counting expired ones out
func (c *InMemorySnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, entry := range c.entries {
		if now.Before(entry.expiresAt) {
			count++
		}
	}
	return count
}

// Ensure InMemorySnapshotCache implements SnapshotCache
var _ SnapshotCache = (*InMemorySnapshotCache)(nil)
