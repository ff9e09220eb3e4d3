package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type goCache struct {
	internal *gocache.Cache
}

// NewInMemory returns a process local cache. Values are stored encoded so
// callers never share mutable state with the cache.
func NewInMemory(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &goCache{internal: gocache.New(defaultExpiration, cleanupInterval)}
}

func (c *goCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.internal.Set(key, raw, ttl)
	return nil
}

func (c *goCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	val, found := c.internal.Get(key)
	if !found {
		return false, nil
	}
	raw, ok := val.([]byte)
	if !ok {
		c.internal.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *goCache) Delete(_ context.Context, key string) error {
	c.internal.Delete(key)
	return nil
}

func (c *goCache) Flush(_ context.Context) error {
	c.internal.Flush()
	return nil
}
