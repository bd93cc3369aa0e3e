package client

import (
	"sync"
	"time"
)

// Cache is the injected memoization capability used by the client to spare
// CCB's rate limiter on repeated unfiltered listings. The default backend is
// an in-process map; multi-instance deployments can plug a shared store in.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Expire(key string)
}

type memoryCacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is a TTL map safe for concurrent use.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryCacheItem
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]memoryCacheItem),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(item.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return item.value, true
}

func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryCacheItem{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *MemoryCache) Expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
