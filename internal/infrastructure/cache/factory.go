package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateCache is the contract both rate caches satisfy
type RateCache interface {
	Get(ctx context.Context, currencyID uuid.UUID) (currency.RateSnapshot, bool, error)
	Set(ctx context.Context, snapshot currency.RateSnapshot) error
	Invalidate(ctx context.Context, currencyID uuid.UUID) error
}

// Caches bundles the caches built from configuration
type Caches struct {
	Rates       RateCache
	Idempotency shared.IdempotencyStore

	closers []io.Closer
}

// Close releases the Redis connection and stops the in-memory cleanup loops
func (c *Caches) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory creates caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to in-memory caches.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns Redis-backed caches when Redis is enabled and reachable,
// in-memory ones otherwise
func (f *Factory) Create(ctx context.Context) (*Caches, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory caches")
		return f.inMemory(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using redis caches", zap.String("addr", f.redisConfig.Addr()))
		return f.redis(client), nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, falling back to in-memory caches; "+
		"rate changes reach other instances only after the cache TTL",
		zap.Error(err),
	)
	return f.inMemory(), nil
}

func (f *Factory) inMemory() *Caches {
	rates := NewInMemoryRateCache(f.cacheConfig.RateTTL)
	store := NewInMemoryIdempotencyStore()
	return &Caches{
		Rates:       rates,
		Idempotency: store,
		closers:     []io.Closer{rates, store},
	}
}

func (f *Factory) redis(client *redis.Client) *Caches {
	return &Caches{
		Rates:       NewRedisRateCache(client, f.cacheConfig.RateTTL),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		closers:     []io.Closer{client},
	}
}
