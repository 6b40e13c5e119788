package enrich

import "sync"

// Cache memoizes lookup outcomes by ZIP code for the lifetime of one
// pipeline run. Concurrent readers are safe and each key's fill function
// runs at most once; callers create a fresh cache per run.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry[V]
}

type cacheEntry[V any] struct {
	once sync.Once
	val  V
}

// NewCache creates an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]*cacheEntry[V])}
}

// GetOrFill returns the cached value for key, invoking fill exactly once per
// key to populate it. Concurrent callers for the same key block until the
// single fill completes.
func (c *Cache[V]) GetOrFill(key string, fill func() V) V {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry[V]{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() { e.val = fill() })
	return e.val
}

// Len returns the number of cached keys.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
