package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	c *gocache.Cache
}

// NewMemory returns an in-process cache, used when no Redis URL is
// configured.
func NewMemory(defaultTTL time.Duration) Cache {
	return &memoryCache{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	if v, ok := m.c.Get(key); ok {
		if b, ok := v.([]byte); ok {
			return b, true
		}
	}
	return nil, false
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

func (m *memoryCache) Delete(_ context.Context, key string) {
	m.c.Delete(key)
}
