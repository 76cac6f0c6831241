//go:build integration

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
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}
}

func TestRedisCaches(t *testing.T) {
	ctx := context.Background()
	caches, err := NewFactory(newRedisConfig(t), config.CacheConfig{RateTTL: time.Minute},
		WithInMemoryFallback(false)).Create(ctx)
	require.NoError(t, err)
	defer caches.Close()

	require.IsType(t, &RedisRateCache{}, caches.Rates)

	t.Run("rate cache", func(t *testing.T) {
		id := uuid.New()
		_, ok, err := caches.Rates.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		snap := currency.RateSnapshot{CurrencyID: id, Code: "GBP", Rate: decimal.RequireFromString("0.7812"), TakenAt: time.Now().UTC()}
		require.NoError(t, caches.Rates.Set(ctx, snap))

		got, ok, err := caches.Rates.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "GBP", got.Code)
		assert.True(t, got.Rate.Equal(snap.Rate))

		require.NoError(t, caches.Rates.Invalidate(ctx, id))
		_, ok, err = caches.Rates.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("idempotency store", func(t *testing.T) {
		eventID := uuid.NewString()
		isNew, err := caches.Idempotency.MarkProcessed(ctx, eventID, time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = caches.Idempotency.MarkProcessed(ctx, eventID, time.Minute)
		require.NoError(t, err)
		assert.False(t, isNew)

		processed, err := caches.Idempotency.IsProcessed(ctx, eventID)
		require.NoError(t, err)
		assert.True(t, processed)
	})
}
