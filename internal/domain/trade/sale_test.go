package trade

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumLines(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}

// ============================================
// Creation
// ============================================

func TestNewSale_CashSaleIsPending(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)

	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2})

	assert.Equal(t, SaleStatusPending, s.Status)
	assert.Equal(t, "20.00", s.TotalAmount.StringFixed(2))
	assert.False(t, s.StockDeducted)
	assert.Nil(t, s.CompletedBy)
	assert.Equal(t, f.rate.Rate, s.ExchangeRate)
	require.Len(t, s.GetDomainEvents(), 1)
}

func TestNewSale_CreditSaleIsCompleted(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "25", 5)

	s := f.sale(t, true, LineInput{ProductID: widget, Quantity: 2})

	assert.Equal(t, SaleStatusCompleted, s.Status)
	require.NotNil(t, s.CompletedBy)
	assert.Equal(t, f.actor, *s.CompletedBy)
	assert.Len(t, s.GetDomainEvents(), 2)
}

func TestNewSale_TotalsMatchLines(t *testing.T) {
	f := newFixture()
	a := f.product("A", "3.33", 100)
	b := f.product("B", "7.77", 100)
	c := f.product("C", "0.99", 100)

	s := f.sale(t, false,
		LineInput{ProductID: a, Quantity: 7, TaxRate: dec("7.5"), DiscountRate: ptr(dec("3"))},
		LineInput{ProductID: b, Quantity: 3, TaxRate: dec("16")},
		LineInput{ProductID: c, Quantity: 11, DiscountRate: ptr(dec("12.5"))},
	)
	assert.True(t, s.TotalAmount.Equal(sumLines(s.Lines)))
}

// ============================================
// Edit
// ============================================

func TestSale_Edit(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	gadget := f.product("G", "5", 5)
	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2})

	lines, err := PriceLines([]LineInput{{ProductID: gadget, Quantity: 3}}, f.products, PricingContext{ExchangeRate: s.ExchangeRate})
	require.NoError(t, err)

	previous, err := s.Edit(SaleEdit{Lines: lines, Remarks: ptr("swap")}, decimal.Zero, f.actor)
	require.NoError(t, err)

	assert.Equal(t, widget, previous[0].ProductID)
	assert.Equal(t, "15.00", s.TotalAmount.StringFixed(2))
	assert.Equal(t, "swap", s.Remarks)
	assert.Equal(t, map[uuid.UUID]int64{widget: -2, gadget: 3}, StockDelta(previous, s.Lines))
}

func TestSale_EditRejections(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)

	t.Run("not pending", func(t *testing.T) {
		s := f.sale(t, true, LineInput{ProductID: widget, Quantity: 1})
		_, err := s.Edit(SaleEdit{Remarks: ptr("x")}, decimal.Zero, f.actor)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("total below paid", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 3})
		lines, _ := PriceLines([]LineInput{{ProductID: widget, Quantity: 1}}, f.products, PricingContext{ExchangeRate: s.ExchangeRate})
		_, err := s.Edit(SaleEdit{Lines: lines}, dec("15"), f.actor)
		assert.Error(t, err)
		assert.Equal(t, "30.00", s.TotalAmount.StringFixed(2))
	})

	t.Run("client change after payment", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 3})
		_, err := s.Edit(SaleEdit{ClientID: ptr(uuid.New())}, dec("1"), f.actor)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

// ============================================
// Payments and status
// ============================================

func TestSale_AcceptPayment(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2})

	closes, err := s.AcceptPayment(f.clientID, f.rate.CurrencyID, dec("5"), decimal.Zero)
	require.NoError(t, err)
	assert.False(t, closes)

	closes, err = s.AcceptPayment(f.clientID, f.rate.CurrencyID, dec("15.000"), dec("5"))
	require.NoError(t, err)
	assert.True(t, closes)

	_, err = s.AcceptPayment(f.clientID, f.rate.CurrencyID, dec("15.01"), dec("5"))
	assert.True(t, errors.Is(err, shared.ErrInsufficientFunds))

	_, err = s.AcceptPayment(f.clientID, uuid.New(), dec("1"), decimal.Zero)
	assert.True(t, errors.Is(err, shared.ErrCurrencyMismatch))

	_, err = s.AcceptPayment(uuid.New(), f.rate.CurrencyID, dec("1"), decimal.Zero)
	assert.Error(t, err)

	credit := f.sale(t, true, LineInput{ProductID: widget, Quantity: 1})
	_, err = credit.AcceptPayment(f.clientID, f.rate.CurrencyID, dec("1"), decimal.Zero)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestSale_RecomputeStatus(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2})

	assert.False(t, s.RecomputeStatus(dec("10"), f.actor))
	assert.True(t, s.IsPending())

	assert.True(t, s.RecomputeStatus(dec("20"), f.actor))
	assert.True(t, s.IsCompleted())

	assert.False(t, s.RecomputeStatus(dec("10"), f.actor))
	assert.True(t, s.IsPending())
	assert.Nil(t, s.CompletedBy)
}

// ============================================
// Cancel and delete
// ============================================

func TestSale_Cancel(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)

	t.Run("cash sale with payments", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2})
		err := s.Cancel(1, 0, f.actor)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		assert.True(t, s.IsPending())
	})

	t.Run("pending return blocks", func(t *testing.T) {
		s := f.sale(t, true, LineInput{ProductID: widget, Quantity: 2})
		assert.True(t, errors.Is(s.Cancel(0, 1, f.actor), shared.ErrInvalidState))
	})

	t.Run("credit sale", func(t *testing.T) {
		s := f.sale(t, true, LineInput{ProductID: widget, Quantity: 2})
		s.MarkStockDeducted()
		require.NoError(t, s.Cancel(0, 0, f.actor))
		assert.True(t, s.IsCancelled())
		assert.False(t, s.StockDeducted)
		require.NotNil(t, s.CanceledBy)

		assert.True(t, errors.Is(s.Cancel(0, 0, f.actor), shared.ErrAlreadyFinalized))
		assert.NoError(t, s.EnsureDeletable(0))
		assert.Error(t, s.EnsureDeletable(1))
	})

	t.Run("delete needs cancellation", func(t *testing.T) {
		s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2})
		assert.True(t, errors.Is(s.EnsureDeletable(0), shared.ErrInvalidState))
	})
}

// ============================================
// Returns
// ============================================

func TestSale_ApplyReturn(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	gadget := f.product("G", "5", 5)
	s := f.sale(t, false,
		LineInput{ProductID: widget, Quantity: 2},
		LineInput{ProductID: gadget, Quantity: 2},
	)

	lines, err := s.ApplyReturn([]ReturnItem{{ProductID: widget, Quantity: 1}, {ProductID: gadget, Quantity: 2}}, f.actor)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "10.00", lines[0].Amount.StringFixed(2))
	assert.Equal(t, "10.00", lines[1].Amount.StringFixed(2))
	require.Len(t, s.Lines, 1)
	assert.Equal(t, int64(1), s.Lines[0].Quantity)
	assert.Equal(t, "10.00", s.TotalAmount.StringFixed(2))

	s.RestoreReturn(lines, f.actor)
	assert.Equal(t, "30.00", s.TotalAmount.StringFixed(2))
	require.Len(t, s.Lines, 2)
	line, ok := s.Line(gadget)
	require.True(t, ok)
	assert.Equal(t, int64(2), line.Quantity)
}

func TestSale_ApplyReturnRejectsExcess(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	gadget := f.product("G", "5", 5)
	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 2}, LineInput{ProductID: gadget, Quantity: 1})
	before := s.Version

	_, err := s.ApplyReturn([]ReturnItem{{ProductID: widget, Quantity: 1}, {ProductID: gadget, Quantity: 2}}, f.actor)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeReturnExceedsSold, domainErr.Code)

	assert.Equal(t, before, s.Version)
	assert.Equal(t, "25.00", s.TotalAmount.StringFixed(2))

	_, err = s.ApplyReturn([]ReturnItem{{ProductID: uuid.New(), Quantity: 1}}, f.actor)
	assert.Error(t, err)
}

func TestSale_CumulativeReturnsBoundedBySold(t *testing.T) {
	f := newFixture()
	widget := f.product("W", "10", 5)
	s := f.sale(t, false, LineInput{ProductID: widget, Quantity: 3})

	returned := int64(0)
	for range 5 {
		lines, err := s.ApplyReturn([]ReturnItem{{ProductID: widget, Quantity: 1}}, f.actor)
		if err != nil {
			break
		}
		returned += lines[0].Quantity
	}
	assert.Equal(t, int64(3), returned)
	assert.Empty(t, s.Lines)
	assert.True(t, s.TotalAmount.IsZero())
}
