package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyModel is the persistence model for the Currency aggregate root
type CurrencyModel struct {
	AggregateModel
	Code   string          `gorm:"type:varchar(3);not null;uniqueIndex"`
	Name   string          `gorm:"type:varchar(100);not null"`
	Symbol string          `gorm:"type:varchar(10)"`
	Rate   decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	IsBase bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the persistence model to a domain Currency
func (m *CurrencyModel) ToDomain() *currency.Currency {
	return &currency.Currency{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Symbol:            m.Symbol,
		Rate:              m.Rate,
		IsBase:            m.IsBase,
	}
}

// FromDomain populates the persistence model from a domain Currency
func (m *CurrencyModel) FromDomain(c *currency.Currency) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Symbol = c.Symbol
	m.Rate = c.Rate
	m.IsBase = c.IsBase
}

// CurrencyModelFromDomain creates a new persistence model from a domain Currency
func CurrencyModelFromDomain(c *currency.Currency) *CurrencyModel {
	m := &CurrencyModel{}
	m.FromDomain(c)
	return m
}

// ExchangeRateModel is one row of a currency's rate history
type ExchangeRateModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CurrencyID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_exchange_rates_currency_effective,priority:1"`
	PreviousRate decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ChangedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	EffectiveAt  time.Time       `gorm:"not null;index:idx_exchange_rates_currency_effective,priority:2"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// ToDomain converts the persistence model to a domain ExchangeRate
func (m *ExchangeRateModel) ToDomain() *currency.ExchangeRate {
	return &currency.ExchangeRate{
		ID:           m.ID,
		CurrencyID:   m.CurrencyID,
		PreviousRate: m.PreviousRate,
		Rate:         m.Rate,
		ChangedBy:    m.ChangedBy,
		EffectiveAt:  m.EffectiveAt,
	}
}

// ExchangeRateModelFromDomain creates a new persistence model from a domain ExchangeRate
func ExchangeRateModelFromDomain(r *currency.ExchangeRate) *ExchangeRateModel {
	return &ExchangeRateModel{
		ID:           r.ID,
		CurrencyID:   r.CurrencyID,
		PreviousRate: r.PreviousRate,
		Rate:         r.Rate,
		ChangedBy:    r.ChangedBy,
		EffectiveAt:  r.EffectiveAt,
	}
}
