package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultAggregateKeyPrefix = "inventory:aggregate:"

// RedisAggregateCache caches per-item aggregate stock in Redis. It is
// suitable for distributed deployments where multiple instances serve
// aggregate reads. Redis failures degrade to cache misses; the database
// stays the source of truth.
type RedisAggregateCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisAggregateCache creates a new Redis-backed aggregate cache
func NewRedisAggregateCache(cfg RedisConfig, ttl time.Duration, log *zap.Logger) (*RedisAggregateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisAggregateCacheWithClient(client, ttl, log), nil
}

// NewRedisAggregateCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisAggregateCacheWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisAggregateCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisAggregateCache{
		client:    client,
		keyPrefix: defaultAggregateKeyPrefix,
		ttl:       ttl,
		log:       log,
	}
}

// Get returns the cached aggregate for an item, if present
func (c *RedisAggregateCache) Get(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, c.key(itemID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("aggregate cache read failed", zap.String("item_id", itemID.String()), zap.Error(err))
		}
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		// Unparseable entries are dropped rather than served
		c.client.Del(ctx, c.key(itemID))
		return decimal.Zero, false
	}
	return value, true
}

// Set stores the aggregate for an item with the configured TTL
func (c *RedisAggregateCache) Set(ctx context.Context, itemID uuid.UUID, value decimal.Decimal) {
	if err := c.client.Set(ctx, c.key(itemID), value.String(), c.ttl).Err(); err != nil {
		c.log.Warn("aggregate cache write failed", zap.String("item_id", itemID.String()), zap.Error(err))
	}
}

// Invalidate drops the cached aggregate for an item
func (c *RedisAggregateCache) Invalidate(ctx context.Context, itemID uuid.UUID) {
	if err := c.client.Del(ctx, c.key(itemID)).Err(); err != nil {
		c.log.Warn("aggregate cache invalidation failed", zap.String("item_id", itemID.String()), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisAggregateCache) Close() error {
	return c.client.Close()
}

func (c *RedisAggregateCache) key(itemID uuid.UUID) string {
	return c.keyPrefix + itemID.String()
}

// Ensure RedisAggregateCache implements AggregateCache
var _ appinventory.AggregateCache = (*RedisAggregateCache)(nil)
