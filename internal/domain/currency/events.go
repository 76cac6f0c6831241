package currency

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeCurrency = "Currency"

	EventTypeRateChanged = "CurrencyRateChanged"
)

// RateChangedEvent is raised when a currency is created or its rate changes
type RateChangedEvent struct {
	shared.BaseDomainEvent
	Code         string          `json:"code"`
	PreviousRate decimal.Decimal `json:"previous_rate"`
	Rate         decimal.Decimal `json:"rate"`
}

// NewRateChangedEvent creates a RateChangedEvent
func NewRateChangedEvent(c *Currency, previous decimal.Decimal, actor uuid.UUID) *RateChangedEvent {
	return &RateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRateChanged, AggregateTypeCurrency, c.ID, actor),
		Code:            c.Code,
		PreviousRate:    previous,
		Rate:            c.Rate,
	}
}
