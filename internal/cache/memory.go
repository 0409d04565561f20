package cache

import (
	"context"
	"sync"
)

const defaultMemoryCap = 256

// Memory is the in-process cache tier, used when no REDIS_URL or
// DATABASE_URL is configured. Bounded FIFO eviction keeps it from growing
// with every distinct request.
type Memory struct {
	mu      sync.Mutex
	items   map[string]*Matrices
	order   []string
	maxSize int
}

func NewMemory() *Memory {
	return &Memory{items: map[string]*Matrices{}, maxSize: defaultMemoryCap}
}

func (c *Memory) Get(_ context.Context, key string) (*Matrices, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[key], nil
}

func (c *Memory) Put(_ context.Context, key string, m *Matrices) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
		if len(c.order) > c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
	}
	c.items[key] = m
	return nil
}
