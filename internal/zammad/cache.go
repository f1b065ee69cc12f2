package zammad

import "sync"

// cache is a per-entity map keyed by id. Entries live until Clear; there is
// no size or time based eviction. Safe for concurrent use.
type cache[V any] struct {
	mu sync.Mutex
	m  map[int]V
}

func (c *cache[V]) get(id int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[id]
	return v, ok
}

func (c *cache[V]) put(id int, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[int]V)
	}
	c.m[id] = v
}

func (c *cache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = nil
}
