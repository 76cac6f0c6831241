// Package currency holds the currency directory use cases.
package currency

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// CurrencyService manages currencies and their rate history
type CurrencyService struct {
	scope          txscope.Scope
	rates          *RateResolver
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService(scope txscope.Scope, rates *RateResolver, logger *zap.Logger) *CurrencyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurrencyService{scope: scope, rates: rates, logger: logger}
}

// SetEventPublisher sets the publisher rate changes are announced on
func (s *CurrencyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCurrency adds a currency to the directory
func (s *CurrencyService) CreateCurrency(ctx context.Context, req CreateCurrencyRequest) (*CurrencyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "currency", "create")
	defer span.End()

	c, err := currency.NewCurrency(req.Code, req.Name, req.Symbol, req.Rate, req.IsBase)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var events txscope.EventCollector
	err = s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Currencies().FindByCode(ctx, c.Code); err == nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Currency code already exists").WithDetail("code", c.Code)
		} else if !shared.IsNotFound(err) {
			return err
		}
		if err := repos.Currencies().Save(ctx, c); err != nil {
			return err
		}
		events.Collect(c)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, &events)

	resp := ToCurrencyResponse(c)
	return &resp, nil
}

// UpdateRate replaces the current rate, appends it to the history and drops the cached rate.
// Sales already created keep the rate they snapshotted.
func (s *CurrencyService) UpdateRate(ctx context.Context, actor, id uuid.UUID, rate decimal.Decimal) (*CurrencyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "currency", "update_rate")
	defer span.End()
	telemetry.SetAttributes(span, "currency_id", id.String(), "rate", rate.String())

	var (
		updated *currency.Currency
		events  txscope.EventCollector
	)
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		c, err := repos.Currencies().FindByID(ctx, id)
		if err != nil {
			return err
		}
		history, err := c.UpdateRate(rate, actor)
		if err != nil {
			return err
		}
		if err := repos.Currencies().SaveWithLock(ctx, c); err != nil {
			return err
		}
		if err := repos.Currencies().AppendRate(ctx, history); err != nil {
			return err
		}
		updated = c
		events.Collect(c)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.rates.Invalidate(ctx, id)
	s.publish(ctx, &events)
	s.logger.Info("currency rate updated",
		zap.String("currency", updated.Code),
		zap.String("rate", updated.Rate.String()),
	)

	resp := ToCurrencyResponse(updated)
	return &resp, nil
}

// GetCurrency returns a currency by id
func (s *CurrencyService) GetCurrency(ctx context.Context, id uuid.UUID) (*CurrencyResponse, error) {
	var resp CurrencyResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		c, err := repos.Currencies().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToCurrencyResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCurrencies returns the whole directory
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]CurrencyResponse, error) {
	var out []CurrencyResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		all, err := repos.Currencies().FindAll(ctx)
		if err != nil {
			return err
		}
		out = make([]CurrencyResponse, len(all))
		for i := range all {
			out[i] = ToCurrencyResponse(&all[i])
		}
		return nil
	})
	return out, err
}

// ListRateHistory returns the newest rate changes first
func (s *CurrencyService) ListRateHistory(ctx context.Context, id uuid.UUID, limit int) ([]ExchangeRateResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultHistoryLimit
	}
	var out []ExchangeRateResponse
	err := s.scope.Execute(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Currencies().FindByID(ctx, id); err != nil {
			return err
		}
		rates, err := repos.Currencies().ListRates(ctx, id, limit)
		if err != nil {
			return err
		}
		out = ToExchangeRateResponses(rates)
		return nil
	})
	return out, err
}

func (s *CurrencyService) publish(ctx context.Context, events *txscope.EventCollector) {
	if err := events.Publish(ctx, s.eventPublisher); err != nil {
		s.logger.Error("failed to publish currency events", zap.Error(err))
	}
}
