package cache

import (
	"time"

	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"go.uber.org/zap"
)

// NewAggregateCache selects the cache backend for the deployment. With a
// Redis address configured it returns the shared Redis cache; without one,
// single-instance deployments fall back to the in-process cache.
func NewAggregateCache(cfg RedisConfig, ttl time.Duration, log *zap.Logger) (appinventory.AggregateCache, error) {
	if cfg.Addr == "" {
		return NewInMemoryAggregateCache(ttl), nil
	}
	return NewRedisAggregateCache(cfg, ttl, log)
}
