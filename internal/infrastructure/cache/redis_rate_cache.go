package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRatePrefix = "backoffice:rate:"

// RedisRateCache stores rate snapshots as JSON values with a TTL, so every
// instance sees an invalidation made by any other
type RedisRateCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRateCache creates a cache on an existing client
func NewRedisRateCache(client *redis.Client, ttl time.Duration) *RedisRateCache {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	return &RedisRateCache{client: client, keyPrefix: defaultRatePrefix, ttl: ttl}
}

func (c *RedisRateCache) key(currencyID uuid.UUID) string {
	return c.keyPrefix + currencyID.String()
}

// Get returns the cached snapshot. A missing key is a miss, not an error.
func (c *RedisRateCache) Get(ctx context.Context, currencyID uuid.UUID) (currency.RateSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(currencyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return currency.RateSnapshot{}, false, nil
	}
	if err != nil {
		return currency.RateSnapshot{}, false, fmt.Errorf("failed to read cached rate: %w", err)
	}

	var snap currency.RateSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return currency.RateSnapshot{}, false, fmt.Errorf("failed to decode cached rate: %w", err)
	}
	return snap, true, nil
}

// Set stores a snapshot
func (c *RedisRateCache) Set(ctx context.Context, snapshot currency.RateSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode rate: %w", err)
	}
	if err := c.client.Set(ctx, c.key(snapshot.CurrencyID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}

// Invalidate deletes the snapshot of a currency
func (c *RedisRateCache) Invalidate(ctx context.Context, currencyID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(currencyID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached rate: %w", err)
	}
	return nil
}
