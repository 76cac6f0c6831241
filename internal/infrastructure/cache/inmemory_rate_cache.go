package cache

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/google/uuid"
)

// DefaultRateTTL bounds how long a rate may be served after a change made by another instance
const DefaultRateTTL = 5 * time.Minute

// InMemoryRateCache caches rate snapshots in process memory
type InMemoryRateCache struct {
	entries *expiringMap[currency.RateSnapshot]
	ttl     time.Duration
}

// NewInMemoryRateCache creates a cache whose entries live for ttl
func NewInMemoryRateCache(ttl time.Duration) *InMemoryRateCache {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	return &InMemoryRateCache{
		entries: newExpiringMap[currency.RateSnapshot](time.Minute),
		ttl:     ttl,
	}
}

// Get returns the cached snapshot, if any
func (c *InMemoryRateCache) Get(_ context.Context, currencyID uuid.UUID) (currency.RateSnapshot, bool, error) {
	snap, ok := c.entries.get(currencyID.String())
	return snap, ok, nil
}

// Set stores a snapshot
func (c *InMemoryRateCache) Set(_ context.Context, snapshot currency.RateSnapshot) error {
	c.entries.set(snapshot.CurrencyID.String(), snapshot, c.ttl)
	return nil
}

// Invalidate drops the snapshot of a currency
func (c *InMemoryRateCache) Invalidate(_ context.Context, currencyID uuid.UUID) error {
	c.entries.delete(currencyID.String())
	return nil
}

// Close stops the cleanup loop
func (c *InMemoryRateCache) Close() error {
	c.entries.close()
	return nil
}
