package cache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory is an in-process cache for single instance deployments.
type Memory struct {
	cache *cache.Cache
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		cache: cache.New(defaultTTL, 2*defaultTTL),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	x, found := m.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	value, ok := x.([]byte)
	if !ok {
		m.cache.Delete(key)
		return nil, false, nil
	}
	return value, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
