package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// InMemoryAggregateCache caches per-item aggregate stock in process memory.
// Suitable for single-instance deployments and tests; entries expire after
// the configured TTL.
type InMemoryAggregateCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]aggregateEntry
	ttl     time.Duration
}

type aggregateEntry struct {
	value     decimal.Decimal
	expiresAt time.Time
}

// NewInMemoryAggregateCache creates a new in-memory aggregate cache
func NewInMemoryAggregateCache(ttl time.Duration) *InMemoryAggregateCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &InMemoryAggregateCache{
		entries: make(map[uuid.UUID]aggregateEntry),
		ttl:     ttl,
	}
}

// Get returns the cached aggregate for an item, if present and not expired
func (c *InMemoryAggregateCache) Get(_ context.Context, itemID uuid.UUID) (decimal.Decimal, bool) {
	c.mu.RLock()
	entry, ok := c.entries[itemID]
	c.mu.RUnlock()

	if !ok {
		return decimal.Zero, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, itemID)
		c.mu.Unlock()
		return decimal.Zero, false
	}
	return entry.value, true
}

// Set stores the aggregate for an item
func (c *InMemoryAggregateCache) Set(_ context.Context, itemID uuid.UUID, value decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[itemID] = aggregateEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached aggregate for an item
func (c *InMemoryAggregateCache) Invalidate(_ context.Context, itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, itemID)
}

// Len returns the number of live entries (for monitoring)
func (c *InMemoryAggregateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryAggregateCache implements AggregateCache
var _ appinventory.AggregateCache = (*InMemoryAggregateCache)(nil)
