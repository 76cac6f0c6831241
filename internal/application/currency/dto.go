package currency

import (
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest represents a request to add a currency to the directory
type CreateCurrencyRequest struct {
	Code   string          `json:"code" binding:"required,len=3"`
	Name   string          `json:"name" binding:"required,min=1,max=100"`
	Symbol string          `json:"symbol" binding:"max=10"`
	Rate   decimal.Decimal `json:"rate"`
	IsBase bool            `json:"is_base"`
}

// UpdateRateRequest represents a request to change the current exchange rate
type UpdateRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

// CurrencyResponse represents a currency in API responses
type CurrencyResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	Rate      decimal.Decimal `json:"rate"`
	IsBase    bool            `json:"is_base"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ExchangeRateResponse represents one entry of the rate history
type ExchangeRateResponse struct {
	ID           uuid.UUID       `json:"id"`
	PreviousRate decimal.Decimal `json:"previous_rate"`
	Rate         decimal.Decimal `json:"rate"`
	ChangedBy    uuid.UUID       `json:"changed_by"`
	EffectiveAt  time.Time       `json:"effective_at"`
}

// ToCurrencyResponse converts a domain Currency to CurrencyResponse
func ToCurrencyResponse(c *currency.Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Symbol:    c.Symbol,
		Rate:      c.Rate,
		IsBase:    c.IsBase,
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToExchangeRateResponses converts rate history entries
func ToExchangeRateResponses(rates []currency.ExchangeRate) []ExchangeRateResponse {
	out := make([]ExchangeRateResponse, len(rates))
	for i, r := range rates {
		out[i] = ExchangeRateResponse{
			ID:           r.ID,
			PreviousRate: r.PreviousRate,
			Rate:         r.Rate,
			ChangedBy:    r.ChangedBy,
			EffectiveAt:  r.EffectiveAt,
		}
	}
	return out
}
