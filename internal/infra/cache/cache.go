// Package cache provides a small in-memory TTL cache. The BFF keeps no
// durable local state; this only smooths repeated reads of slow-changing
// collections such as the service-page taxonomy.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value   T
	expires int64
}

func (it item[T]) expired(now int64) bool {
	return now > it.expires
}

// InMemory is a concurrency-safe cache where every entry shares one TTL.
type InMemory[T any] struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]item[T]
}

// New creates a cache and starts a background sweep that drops expired
// entries so a rarely-read key cannot pin memory for the process lifetime.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		ttl:   ttl,
		items: make(map[string]item[T]),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, or the zero value and false on a
// miss. An expired entry counts as a miss even before the sweep drops it.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || it.expired(time.Now().UnixNano()) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key, resetting its TTL.
func (c *InMemory[T]) Set(key string, value T) {
	expires := time.Now().Add(c.ttl).UnixNano()

	c.mu.Lock()
	c.items[key] = item[T]{value: value, expires: expires}
	c.mu.Unlock()
}

// Delete removes key. Used for write-through invalidation.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *InMemory[T]) sweep() {
	interval := c.ttl
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now().UnixNano()
		c.mu.Lock()
		for k, it := range c.items {
			if it.expired(now) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
