package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	createdAt time.Time
}

// Cache is a concurrency-safe in-memory response cache with a fixed TTL
// and single-flight computation: concurrent GetOrCompute calls for the
// same key collapse into one execution of the compute function, and all
// waiters receive the same value or the same error. Errors are never
// stored.
//
// Expired entries are evicted lazily on lookup; there is no background
// sweeper. maxEntries bounds memory by evicting the oldest entry when
// the cache is full (0 = unbounded).
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	group      singleflight.Group
}

// New creates a Cache. Entries expire ttl after creation.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// GetOrCompute returns the cached value for key, or runs compute to
// produce, store and return it. At most one compute runs per key at a
// time regardless of caller count.
func (c *Cache) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A waiter that lost the lookup race may find the value stored
		// by a compute that finished just before it joined the group.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})
	return v, err
}

// Len reports the number of live (possibly expired, not yet evicted)
// entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.createdAt) > c.ttl {
		c.mu.Lock()
		// Re-check: a fresh entry may have replaced the expired one.
		if cur, ok := c.entries[key]; ok && cur.createdAt.Equal(e.createdAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		if _, exists := c.entries[key]; !exists {
			c.evictOldestLocked()
		}
	}
	c.entries[key] = entry{value: v, createdAt: time.Now()}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.createdAt.Before(oldest) {
			oldestKey = k
			oldest = e.createdAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
