package catalog

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, stock int64) *Product {
	t.Helper()
	p, err := NewProduct("SKU-001", "Widget", decimal.NewFromInt(10), stock)
	require.NoError(t, err)
	return p
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		pname string
		price decimal.Decimal
		stock int64
	}{
		{"empty code", "", "Widget", decimal.NewFromInt(1), 0},
		{"empty name", "SKU", " ", decimal.NewFromInt(1), 0},
		{"negative price", "SKU", "Widget", decimal.NewFromInt(-1), 0},
		{"negative stock", "SKU", "Widget", decimal.NewFromInt(1), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.code, tt.pname, tt.price, tt.stock)
			assert.Error(t, err)
		})
	}
}

func TestProduct_Decrease(t *testing.T) {
	actor := uuid.New()
	source := SourceRef{Type: "sale", ID: uuid.New()}

	t.Run("decrements and records a movement", func(t *testing.T) {
		p := newTestProduct(t, 10)
		mv, err := p.Decrease(4, ReasonSale, source, actor)
		require.NoError(t, err)

		assert.Equal(t, int64(6), p.StockQuantity)
		assert.Equal(t, int64(-4), mv.Delta)
		assert.Equal(t, int64(6), mv.QuantityAfter)
		assert.Equal(t, source.ID, mv.SourceID)
		require.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("never goes negative", func(t *testing.T) {
		p := newTestProduct(t, 3)
		_, err := p.Decrease(4, ReasonSale, source, actor)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(3), p.StockQuantity)
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		p := newTestProduct(t, 3)
		_, err := p.Decrease(0, ReasonSale, source, actor)
		assert.Error(t, err)
	})
}

func TestProduct_IncreaseAndReason(t *testing.T) {
	p := newTestProduct(t, 0)
	_, err := p.Increase(5, ReasonPurchaseReceive, SourceRef{Type: "purchase_order", ID: uuid.New()}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.StockQuantity)

	_, err = p.Adjust(1, MovementReason("gift"), SourceRef{}, uuid.New())
	assert.Error(t, err)
	assert.NoError(t, p.EnsureStock(5))
	assert.Error(t, p.EnsureStock(6))
}
