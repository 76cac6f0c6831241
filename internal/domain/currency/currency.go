// Package currency models the currency directory and its exchange-rate history.
package currency

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency is a currency of the directory with its current rate against the base currency.
// A sale converts product base prices by multiplying with Rate.
type Currency struct {
	shared.BaseAggregateRoot
	Code   string
	Name   string
	Symbol string
	Rate   decimal.Decimal
	IsBase bool
}

// NewCurrency creates a currency after validating its ISO 4217 code
func NewCurrency(code, name, symbol string, rate decimal.Decimal, isBase bool) (*Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := currency.ParseISO(code); err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY_CODE", fmt.Sprintf("%q is not an ISO 4217 currency code", code))
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Currency name cannot be empty")
	}
	if isBase {
		rate = decimal.NewFromInt(1)
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	c := &Currency{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Symbol:            symbol,
		Rate:              rate,
		IsBase:            isBase,
	}
	c.AddDomainEvent(NewRateChangedEvent(c, decimal.Zero, uuid.Nil))
	return c, nil
}

// UpdateRate replaces the current rate and returns the history record to persist
func (c *Currency) UpdateRate(rate decimal.Decimal, actor uuid.UUID) (*ExchangeRate, error) {
	if c.IsBase {
		return nil, shared.NewDomainError("BASE_CURRENCY_RATE", "The base currency rate is fixed at 1")
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	previous := c.Rate
	c.Rate = rate
	c.Touch()
	c.AddDomainEvent(NewRateChangedEvent(c, previous, actor))

	return NewExchangeRate(c.ID, previous, rate, actor), nil
}

// Snapshot freezes the current rate for use by a transaction
func (c *Currency) Snapshot() RateSnapshot {
	return RateSnapshot{
		CurrencyID: c.ID,
		Code:       c.Code,
		Rate:       c.Rate,
		TakenAt:    time.Now(),
	}
}

// RateSnapshot is the currency rate captured at the moment a sale is created
type RateSnapshot struct {
	CurrencyID uuid.UUID       `json:"currency_id"`
	Code       string          `json:"code"`
	Rate       decimal.Decimal `json:"rate"`
	TakenAt    time.Time       `json:"taken_at"`
}

// Convert converts a base-currency amount into this currency
func (s RateSnapshot) Convert(base decimal.Decimal) decimal.Decimal {
	return base.Mul(s.Rate)
}
