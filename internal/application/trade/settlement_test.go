package trade

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settledByReturn sells 2 units at 15, pays 15 and returns 1 unit, which
// settles the sale on its remaining line
func settledByReturn(t *testing.T, f *fixture) (product uuid.UUID, sale *SaleResponse, ret *ReturnResponse) {
	t.Helper()
	product = f.product(t, "15", 10)
	sale = f.createSale(t, false, line{product, 2})
	_, err := f.pay(sale.ID, "15")
	require.NoError(t, err)
	require.Equal(t, int64(10), f.stock(t, product))

	ret, err = f.returnGoods(sale.ID, line{product, 1})
	require.NoError(t, err)
	assert.False(t, ret.StockRestocked, "the returned unit was never taken")

	got := f.sale(t, sale.ID)
	require.Equal(t, string(trade.SaleStatusCompleted), got.Status)
	require.True(t, got.StockDeducted)
	require.Equal(t, int64(9), f.stock(t, product))
	return product, sale, ret
}

func (f *fixture) sale(t *testing.T, id uuid.UUID) *SaleResponse {
	t.Helper()
	got, err := f.sales.GetSale(f.ctx, id)
	require.NoError(t, err)
	return got
}

func TestReturnService_CancelReturnAfterSettlement(t *testing.T) {
	f := newFixture(t)
	p, sale, ret := settledByReturn(t, f)

	_, err := f.returns.CancelReturn(f.ctx, f.actor, ret.ID)
	require.NoError(t, err)
	got := f.sale(t, sale.ID)
	assert.Equal(t, string(trade.SaleStatusPending), got.Status)
	assert.True(t, got.StockDeducted)
	assert.Equal(t, int64(8), f.stock(t, p), "the restored unit is held by the sale")

	second, err := f.pay(sale.ID, "15")
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCompleted), second.SaleStatus)
	assert.Equal(t, int64(8), f.stock(t, p), "stock is taken once")

	payments, err := f.payments.ListPaymentsBySale(f.ctx, sale.ID)
	require.NoError(t, err)
	for _, pay := range payments {
		_, err := f.payments.CancelPayment(f.ctx, f.actor, pay.ID)
		require.NoError(t, err)
	}
	_, err = f.sales.CancelSale(f.ctx, f.actor, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stock(t, p), "cancelling gives back exactly what was taken")
}

func TestReturnService_EditReturnAfterSettlement(t *testing.T) {
	f := newFixture(t)
	p, sale, ret := settledByReturn(t, f)

	edited, err := f.returns.EditReturn(f.ctx, f.actor, ret.ID, EditReturnRequest{
		Lines: []ReturnLineInput{{ProductID: p, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), f.stock(t, p), "an unchanged edit moves no stock")
	assert.True(t, edited.StockRestocked)
	assert.Equal(t, string(trade.SaleStatusCompleted), f.sale(t, sale.ID).Status)

	_, err = f.returns.CancelReturn(f.ctx, f.actor, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), f.stock(t, p))

	_, err = f.pay(sale.ID, "15")
	require.NoError(t, err)
	got := f.sale(t, sale.ID)
	assert.Equal(t, string(trade.SaleStatusCompleted), got.Status)
	assert.Equal(t, int64(8), f.stock(t, p))
}

func TestReturnService_EditReturnOnUnpaidSale(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "15", 10)
	sale := f.createSale(t, false, line{p, 3})
	ret, err := f.returnGoods(sale.ID, line{p, 1})
	require.NoError(t, err)

	_, err = f.returns.EditReturn(f.ctx, f.actor, ret.ID, EditReturnRequest{
		Lines: []ReturnLineInput{{ProductID: p, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stock(t, p), "a sale holding no stock moves none")

	_, err = f.returns.CancelReturn(f.ctx, f.actor, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stock(t, p))
	assert.Equal(t, int64(3), f.sale(t, sale.ID).Lines[0].Quantity)
}

func TestSaleService_EditDownToPaidCompletes(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 10)
	sale := f.createSale(t, false, line{p, 3})
	_, err := f.pay(sale.ID, "20")
	require.NoError(t, err)

	edited, err := f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines: []SaleLineInput{{ProductID: p, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(edited.TotalAmount))
	assert.True(t, dec("20").Equal(edited.PaidAmount))
	assert.Equal(t, string(trade.SaleStatusCompleted), edited.Status)
	assert.True(t, edited.StockDeducted)
	assert.Equal(t, int64(8), f.stock(t, p))
	assert.Contains(t, f.events.types(), trade.EventTypeSaleCompleted)

	_, err = f.pay(sale.ID, "0.01")
	assert.True(t, errors.Is(err, shared.ErrInsufficientFunds))
}

func TestSaleService_EditReopenedSaleMovesStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	sale := f.createSale(t, false, line{p, 1})
	first, err := f.pay(sale.ID, "4")
	require.NoError(t, err)
	_, err = f.pay(sale.ID, "6")
	require.NoError(t, err)
	require.Equal(t, int64(4), f.stock(t, p))

	_, err = f.payments.CancelPayment(f.ctx, f.actor, first.ID)
	require.NoError(t, err)
	reopened := f.sale(t, sale.ID)
	require.Equal(t, string(trade.SaleStatusPending), reopened.Status)
	require.True(t, reopened.StockDeducted)

	edited, err := f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines: []SaleLineInput{{ProductID: p, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusPending), edited.Status)
	assert.Equal(t, int64(2), f.stock(t, p), "the extra units are taken at once")

	_, err = f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines: []SaleLineInput{{ProductID: p, Quantity: 6}},
	})
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, int64(2), f.stock(t, p))

	_, err = f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines: []SaleLineInput{{ProductID: p, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.stock(t, p))

	_, err = f.pay(sale.ID, "4")
	require.NoError(t, err)
	got := f.sale(t, sale.ID)
	assert.Equal(t, string(trade.SaleStatusCompleted), got.Status)
	assert.Equal(t, int64(4), f.stock(t, p))
}
