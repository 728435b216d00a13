// Package cache provides the in-memory LRU cache and the Redis JSON cache.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// =============================================================================
// LRU Cache - In-Memory with TTL and O(1) Eviction
// =============================================================================

type lruEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// LRU is a size-bounded TTL cache. Safe for concurrent use.
type LRU[V any] struct {
	mu       sync.Mutex
	maxItems int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
	now      func() time.Time

	hits   int64
	misses int64
}

// NewLRU creates a cache holding at most maxItems entries.
func NewLRU[V any](maxItems int) *LRU[V] {
	if maxItems <= 0 {
		maxItems = 10000
	}
	return &LRU[V]{
		maxItems: maxItems,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (c *LRU[V]) WithClock(now func() time.Time) *LRU[V] {
	c.now = now
	return c
}

// Get returns the live value for key.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	entry := el.Value.(*lruEntry[V])
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.removeElement(el)
		c.misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return entry.value, true
}

// Set stores value; a zero ttl never expires.
func (c *LRU[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*lruEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxItems {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
	c.items[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value, expiresAt: expiresAt})
}

func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats contains cache statistics
type Stats struct {
	Items   int     `json:"items"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Items: c.order.Len(), Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

func (c *LRU[V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*lruEntry[V]).key)
}
