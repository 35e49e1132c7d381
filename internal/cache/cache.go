// Package cache provides a TTL-based, capacity-bounded result cache.
// The engine drops all entries on any data-change notification, so a
// hit is never stale.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache maps normalized (query, filters) keys to result sets. Entries
// expire after the TTL and the oldest entries are evicted once the
// capacity bound is exceeded.
type Cache[V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry[V]
	order    []string // insertion order, oldest first
	now      func() time.Time
}

// New creates a cache with the given TTL and capacity. A zero capacity
// disables the bound.
func New[V any](ttl time.Duration, capacity int) *Cache[V] {
	return &Cache[V]{
		ttl:      ttl,
		capacity: capacity,
		entries:  map[string]entry[V]{},
		now:      time.Now,
	}
}

// SetClock overrides the clock, for tests.
func (c *Cache[V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		c.removeLocked(key)
		return zero, false
	}
	return e.value, true
}

// Put stores a value, evicting oldest entries past the capacity bound.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.removeLocked(key)
	}
	c.entries[key] = entry[V]{value: value, createdAt: c.now()}
	c.order = append(c.order, key)

	for c.capacity > 0 && len(c.entries) > c.capacity {
		c.removeLocked(c.order[0])
	}
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry[V]{}
	c.order = nil
}

// Len returns the number of live entries, including any not yet expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
