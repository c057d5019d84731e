package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

type Memcached struct {
	mc *memcache.Client
}

func NewMemcached(mc *memcache.Client) *Memcached {
	return &Memcached{mc: mc}
}

func (m *Memcached) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := m.mc.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return item.Value, true, nil
}

func (m *Memcached) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.mc.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expiration(ttl),
	})
}

func (m *Memcached) Delete(ctx context.Context, key string) error {
	err := m.mc.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

// maxRelativeExpiration is the largest relative ttl memcached accepts;
// anything above is read as an absolute unix timestamp.
const maxRelativeExpiration = 30 * 24 * time.Hour

// memcached takes whole seconds; a sub second ttl still has to expire.
func expiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	ttl = min(ttl, maxRelativeExpiration)
	seconds := int32(ttl / time.Second)
	if seconds == 0 {
		seconds = 1
	}
	return seconds
}
