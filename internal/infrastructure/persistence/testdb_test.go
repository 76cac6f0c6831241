package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newSQLiteDB opens a migrated in-memory database that lives as long as the test
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	d, err := NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	}, Options{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d.DB
}

// newMockDB wires GORM's postgres dialect to sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seed holds one persisted currency, client and product set
type seed struct {
	actor    uuid.UUID
	currency *currency.Currency
	client   *partner.Client
	products []*catalog.Product
}

func seedBasics(t *testing.T, db *gorm.DB, stocks ...int64) *seed {
	t.Helper()
	ctx := context.Background()

	cur, err := currency.NewCurrency("USD", "US Dollar", "$", decimal.NewFromInt(1), true)
	require.NoError(t, err)
	require.NoError(t, NewGormCurrencyRepository(db).Save(ctx, cur))

	client, err := partner.NewClient("C-"+uuid.NewString()[:8], "Acme Retail", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, NewGormClientRepository(db).Save(ctx, client))

	s := &seed{actor: uuid.New(), currency: cur, client: client}
	for i, stock := range stocks {
		p, err := catalog.NewProduct(uuid.NewString()[:8], "Product", decimal.NewFromInt(int64(10*(i+1))), stock)
		require.NoError(t, err)
		require.NoError(t, NewGormProductRepository(db).Save(ctx, p))
		s.products = append(s.products, p)
	}
	return s
}

func (s *seed) snapshots() map[uuid.UUID]catalog.ProductSnapshot {
	out := make(map[uuid.UUID]catalog.ProductSnapshot, len(s.products))
	for _, p := range s.products {
		out[p.ID] = p.Snapshot()
	}
	return out
}

// newSale builds an unsaved sale buying qty[i] of product i
func (s *seed) newSale(t *testing.T, credit bool, qty ...int64) *trade.Sale {
	t.Helper()

	inputs := make([]trade.LineInput, len(qty))
	for i, q := range qty {
		inputs[i] = trade.LineInput{ProductID: s.products[i].ID, Quantity: q}
	}
	lines, err := trade.PriceLines(inputs, s.snapshots(), trade.PricingContext{ExchangeRate: s.currency.Rate})
	require.NoError(t, err)

	rate := s.currency.Snapshot()
	sale, err := trade.NewSale(trade.NewSaleParams{
		SaleNumber: "SAL-" + uuid.NewString()[:12],
		ClientID:   s.client.ID,
		Rate:       rate,
		Lines:      lines,
		CreditSale: credit,
	}, s.actor)
	require.NoError(t, err)
	return sale
}
