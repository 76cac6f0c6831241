package currency

import (
	"context"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateCache caches rate snapshots by currency id
type RateCache interface {
	Get(ctx context.Context, currencyID uuid.UUID) (currency.RateSnapshot, bool, error)
	Set(ctx context.Context, snapshot currency.RateSnapshot) error
	Invalidate(ctx context.Context, currencyID uuid.UUID) error
}

// RateResolver resolves the rate a new transaction is priced with.
// Cache failures fall back to the repository.
type RateResolver struct {
	cache  RateCache
	logger *zap.Logger
}

// NewRateResolver creates a RateResolver. cache may be nil.
func NewRateResolver(cache RateCache, logger *zap.Logger) *RateResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateResolver{cache: cache, logger: logger}
}

// Resolve returns a snapshot of the currency's current rate
func (r *RateResolver) Resolve(ctx context.Context, repo currency.Repository, currencyID uuid.UUID) (currency.RateSnapshot, error) {
	if r.cache != nil {
		snap, ok, err := r.cache.Get(ctx, currencyID)
		if err != nil {
			r.logger.Warn("rate cache read failed", zap.String("currency_id", currencyID.String()), zap.Error(err))
		} else if ok {
			return snap, nil
		}
	}

	c, err := repo.FindByID(ctx, currencyID)
	if err != nil {
		return currency.RateSnapshot{}, err
	}
	snap := c.Snapshot()

	if r.cache != nil {
		if err := r.cache.Set(ctx, snap); err != nil {
			r.logger.Warn("rate cache write failed", zap.String("currency_id", currencyID.String()), zap.Error(err))
		}
	}
	return snap, nil
}

// Invalidate drops a cached rate
func (r *RateResolver) Invalidate(ctx context.Context, currencyID uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, currencyID); err != nil {
		r.logger.Warn("rate cache invalidation failed", zap.String("currency_id", currencyID.String()), zap.Error(err))
	}
}
