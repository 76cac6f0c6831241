package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockRateCache is a mock implementation of RateCache
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Get(ctx context.Context, currencyID uuid.UUID) (currency.RateSnapshot, bool, error) {
	args := m.Called(ctx, currencyID)
	return args.Get(0).(currency.RateSnapshot), args.Bool(1), args.Error(2)
}

func (m *MockRateCache) Set(ctx context.Context, snapshot currency.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockRateCache) Invalidate(ctx context.Context, currencyID uuid.UUID) error {
	args := m.Called(ctx, currencyID)
	return args.Error(0)
}

// MockCurrencyRepository is a mock implementation of currency.Repository
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*currency.Currency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*currency.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindByCode(ctx context.Context, code string) (*currency.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*currency.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindAll(ctx context.Context) ([]currency.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]currency.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Save(ctx context.Context, c *currency.Currency) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCurrencyRepository) SaveWithLock(ctx context.Context, c *currency.Currency) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCurrencyRepository) AppendRate(ctx context.Context, rate *currency.ExchangeRate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockCurrencyRepository) ListRates(ctx context.Context, currencyID uuid.UUID, limit int) ([]currency.ExchangeRate, error) {
	args := m.Called(ctx, currencyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]currency.ExchangeRate), args.Error(1)
}

func newEUR(t *testing.T) *currency.Currency {
	t.Helper()
	c, err := currency.NewCurrency("EUR", "Euro", "€", decimal.RequireFromString("0.92"), false)
	require.NoError(t, err)
	return c
}

func TestRateResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		cache := new(MockRateCache)
		repo := new(MockCurrencyRepository)
		id := uuid.New()
		cached := currency.RateSnapshot{CurrencyID: id, Code: "EUR", Rate: decimal.RequireFromString("0.9"), TakenAt: time.Now()}
		cache.On("Get", ctx, id).Return(cached, true, nil)

		snap, err := NewRateResolver(cache, zaptest.NewLogger(t)).Resolve(ctx, repo, id)

		require.NoError(t, err)
		assert.Equal(t, cached, snap)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss loads and fills the cache", func(t *testing.T) {
		cache := new(MockRateCache)
		repo := new(MockCurrencyRepository)
		eur := newEUR(t)
		cache.On("Get", ctx, eur.ID).Return(currency.RateSnapshot{}, false, nil)
		repo.On("FindByID", ctx, eur.ID).Return(eur, nil)
		cache.On("Set", ctx, mock.MatchedBy(func(s currency.RateSnapshot) bool {
			return s.CurrencyID == eur.ID && s.Rate.Equal(eur.Rate)
		})).Return(nil)

		snap, err := NewRateResolver(cache, zaptest.NewLogger(t)).Resolve(ctx, repo, eur.ID)

		require.NoError(t, err)
		assert.Equal(t, "EUR", snap.Code)
		assert.True(t, snap.Rate.Equal(decimal.RequireFromString("0.92")))
		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("cache errors fall back to the repository", func(t *testing.T) {
		cache := new(MockRateCache)
		repo := new(MockCurrencyRepository)
		eur := newEUR(t)
		cache.On("Get", ctx, eur.ID).Return(currency.RateSnapshot{}, false, errors.New("connection refused"))
		repo.On("FindByID", ctx, eur.ID).Return(eur, nil)
		cache.On("Set", ctx, mock.Anything).Return(errors.New("connection refused"))

		snap, err := NewRateResolver(cache, zaptest.NewLogger(t)).Resolve(ctx, repo, eur.ID)

		require.NoError(t, err)
		assert.Equal(t, eur.ID, snap.CurrencyID)
	})

	t.Run("unknown currency", func(t *testing.T) {
		repo := new(MockCurrencyRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.NotFound("currency", id))

		_, err := NewRateResolver(nil, nil).Resolve(ctx, repo, id)

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestRateResolver_Invalidate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	cache := new(MockRateCache)
	cache.On("Invalidate", ctx, id).Return(errors.New("timeout")).Once()

	resolver := NewRateResolver(cache, zaptest.NewLogger(t))
	resolver.Invalidate(ctx, id)
	cache.AssertExpectations(t)

	assert.NotPanics(t, func() { NewRateResolver(nil, nil).Invalidate(ctx, id) })
}
