package currency

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate is one immutable entry of a currency's rate history
type ExchangeRate struct {
	ID           uuid.UUID
	CurrencyID   uuid.UUID
	PreviousRate decimal.Decimal
	Rate         decimal.Decimal
	ChangedBy    uuid.UUID
	EffectiveAt  time.Time
}

// NewExchangeRate creates a history entry
func NewExchangeRate(currencyID uuid.UUID, previous, rate decimal.Decimal, actor uuid.UUID) *ExchangeRate {
	return &ExchangeRate{
		ID:           uuid.New(),
		CurrencyID:   currencyID,
		PreviousRate: previous,
		Rate:         rate,
		ChangedBy:    actor,
		EffectiveAt:  time.Now(),
	}
}
