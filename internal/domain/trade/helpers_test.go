package trade

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

type fixture struct {
	actor    uuid.UUID
	clientID uuid.UUID
	rate     currency.RateSnapshot
	products map[uuid.UUID]catalog.ProductSnapshot
}

func newFixture() *fixture {
	return &fixture{
		actor:    uuid.New(),
		clientID: uuid.New(),
		rate: currency.RateSnapshot{
			CurrencyID: uuid.New(),
			Code:       "USD",
			Rate:       decimal.NewFromInt(1),
			TakenAt:    time.Now(),
		},
		products: map[uuid.UUID]catalog.ProductSnapshot{},
	}
}

func (f *fixture) product(code, price string, stock int64) uuid.UUID {
	id := uuid.New()
	f.products[id] = catalog.ProductSnapshot{ID: id, Code: code, Name: code, BasePrice: dec(price), StockQuantity: stock}
	return id
}

func (f *fixture) sale(t *testing.T, credit bool, inputs ...LineInput) *Sale {
	t.Helper()
	lines, err := PriceLines(inputs, f.products, PricingContext{ExchangeRate: f.rate.Rate})
	require.NoError(t, err)
	s, err := NewSale(NewSaleParams{
		SaleNumber: "SAL-TEST",
		ClientID:   f.clientID,
		Rate:       f.rate,
		Lines:      lines,
		CreditSale: credit,
	}, f.actor)
	require.NoError(t, err)
	return s
}
