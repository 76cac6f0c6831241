package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestExpiringMap(t *testing.T) {
	m := newExpiringMap[int](time.Hour)
	defer m.close()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	m.set("a", 1, time.Minute)
	v, ok := m.get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.False(t, m.setIfAbsent("a", 2, time.Minute))
	v, _ = m.get("a")
	assert.Equal(t, 1, v)

	clock = clock.Add(time.Minute)
	_, ok = m.get("a")
	assert.False(t, ok, "entry expires exactly at its deadline")
	assert.True(t, m.setIfAbsent("a", 3, time.Minute))

	m.set("b", 4, time.Second)
	clock = clock.Add(2 * time.Second)
	m.cleanup()
	assert.Equal(t, 1, m.size())

	m.delete("a")
	assert.Equal(t, 0, m.size())

	m.close()
	m.close()
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "event-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "event-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew, "already processed event should return false")

	processed, err := store.IsProcessed(ctx, "event-1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "event-2")
	require.NoError(t, err)
	assert.False(t, processed)

	t.Run("allows reprocessing after expiration", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "event-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "event-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "expired event should be reprocessable")
	})

	assert.Equal(t, 2, store.Size())
}

func TestInMemoryRateCache(t *testing.T) {
	cache := NewInMemoryRateCache(time.Hour)
	defer cache.Close()
	ctx := context.Background()

	id := uuid.New()
	_, ok, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	snap := currency.RateSnapshot{CurrencyID: id, Code: "EUR", Rate: decimal.RequireFromString("0.91"), TakenAt: time.Now()}
	require.NoError(t, cache.Set(ctx, snap))

	got, ok, err := cache.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EUR", got.Code)
	assert.True(t, got.Rate.Equal(snap.Rate))

	require.NoError(t, cache.Invalidate(ctx, id))
	_, ok, _ = cache.Get(ctx, id)
	assert.False(t, ok)
}

func TestFactory_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("redis disabled", func(t *testing.T) {
		caches, err := NewFactory(config.RedisConfig{}, config.CacheConfig{RateTTL: time.Minute},
			WithLogger(zaptest.NewLogger(t))).Create(ctx)
		require.NoError(t, err)
		defer caches.Close()

		assert.IsType(t, &InMemoryRateCache{}, caches.Rates)
		assert.IsType(t, &InMemoryIdempotencyStore{}, caches.Idempotency)
	})

	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("unreachable redis falls back", func(t *testing.T) {
		caches, err := NewFactory(unreachable, config.CacheConfig{}, WithLogger(zaptest.NewLogger(t))).Create(ctx)
		require.NoError(t, err)
		defer caches.Close()

		assert.IsType(t, &InMemoryRateCache{}, caches.Rates)
	})

	t.Run("unreachable redis without fallback", func(t *testing.T) {
		_, err := NewFactory(unreachable, config.CacheConfig{}, WithInMemoryFallback(false)).Create(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis required")
	})
}
