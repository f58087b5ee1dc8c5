package cache

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryCache is an in-memory Cache. A single mutex covers the whole
// check-or-load sequence, so a reader never observes a partially loaded entry.
type MemoryCache[K cmp.Ordered, V any] struct {
	mu      sync.Mutex
	entries map[K]*V
	stats   Stats
}

// NewMemoryCache creates an empty cache sized for capacity entries.
func NewMemoryCache[K cmp.Ordered, V any](capacity int) *MemoryCache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &MemoryCache[K, V]{
		entries: make(map[K]*V, capacity),
	}
}

// Get returns a copy of the stored value.
func (c *MemoryCache[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return *entry, true
}

// GetOrLoad returns the stored value or loads it while holding the lock.
func (c *MemoryCache[K, V]) GetOrLoad(ctx context.Context, key K, load Loader[K, V]) (V, bool, error) {
	var zero V
	if load == nil {
		return zero, false, ErrNilLoader
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.stats.Hits++
		return *entry, true, nil
	}

	c.stats.Misses++
	value, err := load(ctx, key)
	if err != nil {
		// Don't cache errors
		c.stats.LoadErrors++
		return zero, false, err
	}

	entry := new(V)
	*entry = value
	c.entries[key] = entry
	return value, false, nil
}

// Len returns the number of stored entries.
func (c *MemoryCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the stored keys in ascending order.
func (c *MemoryCache[K, V]) Keys() []K {
	c.mu.Lock()
	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	slices.Sort(keys)
	return keys
}

// Stats returns a snapshot of the activity counters.
func (c *MemoryCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Ensure MemoryCache implements Cache
var _ Cache[int, string] = (*MemoryCache[int, string])(nil)
