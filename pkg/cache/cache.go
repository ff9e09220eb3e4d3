package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Cache stores JSON encodable values. Get reports false on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

// New picks the backend named by cfg.Driver.
func New(ctx context.Context, cfg config.Cache, redisCfg config.Redis, log *logger.Logger) (Cache, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		log.Info("Using in-memory cache")
		return NewInMemory(cfg.DefaultExpiration, cfg.CleanupInterval), nil
	case DriverRedis:
		rc, err := NewRedis(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		log.Info("Using redis cache", logger.StringField("addr", redisCfg.Addr))
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// GetFromCache decodes key into a fresh T.
func GetFromCache[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var val T
	found, err := c.Get(ctx, key, &val)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}
