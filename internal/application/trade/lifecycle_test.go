package trade

import (
	"errors"
	"testing"

	apppartner "github.com/erp/backoffice/internal/application/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_CreateSale(t *testing.T) {
	t.Run("rejects a sale the stock cannot cover", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "10", 1)

		_, err := f.sales.CreateSale(f.ctx, f.actor, f.saleRequest(false, line{p, 2}))
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("rejects an unknown product", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.sales.CreateSale(f.ctx, f.actor, f.saleRequest(false, line{uuid.New(), 1}))
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("rejects an unknown client", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "10", 1)
		req := f.saleRequest(false, line{p, 1})
		req.ClientID = uuid.New()

		_, err := f.sales.CreateSale(f.ctx, f.actor, req)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("numbers sales uniquely", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "1", 10)
		a := f.createSale(t, false, line{p, 1})
		b := f.createSale(t, false, line{p, 1})
		assert.NotEqual(t, a.SaleNumber, b.SaleNumber)
		assert.Regexp(t, `^SAL-[0-9A-Z]{26}$`, a.SaleNumber)
	})
}

func TestSaleService_EditSale(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	q := f.product(t, "4", 5)
	sale := f.createSale(t, false, line{p, 1})

	remarks := "call before delivery"
	edited, err := f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines:   []SaleLineInput{{ProductID: p, Quantity: 2}, {ProductID: q, Quantity: 1}},
		Remarks: &remarks,
	})
	require.NoError(t, err)
	assert.True(t, dec("24").Equal(edited.TotalAmount), "got %s", edited.TotalAmount)
	assert.Equal(t, remarks, edited.Remarks)
	assert.Equal(t, 2, edited.Version)

	_, err = f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines: []SaleLineInput{{ProductID: p, Quantity: 6}},
	})
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	_, err = f.pay(sale.ID, "20")
	require.NoError(t, err)
	_, err = f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{
		Lines: []SaleLineInput{{ProductID: q, Quantity: 1}},
	})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "total cannot drop below paid, got %v", err)

	_, err = f.pay(sale.ID, "4")
	require.NoError(t, err)
	_, err = f.sales.EditSale(f.ctx, f.actor, sale.ID, EditSaleRequest{Remarks: &remarks})
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "completed sales are frozen")
}

func TestSaleService_CancelAndDelete(t *testing.T) {
	t.Run("unpaid cash sale", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "10", 5)
		sale := f.createSale(t, false, line{p, 2})

		cancelled, err := f.sales.CancelSale(f.ctx, f.actor, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, string(trade.SaleStatusCancelled), cancelled.Status)
		assert.Equal(t, int64(5), f.stock(t, p))

		_, err = f.sales.CancelSale(f.ctx, f.actor, sale.ID)
		assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))

		require.NoError(t, f.sales.DeleteSale(f.ctx, f.actor, sale.ID))
		_, err = f.sales.GetSale(f.ctx, sale.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("payments block cancel and delete", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "10", 5)
		sale := f.createSale(t, false, line{p, 2})
		payment, err := f.pay(sale.ID, "5")
		require.NoError(t, err)

		_, err = f.sales.CancelSale(f.ctx, f.actor, sale.ID)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))

		err = f.sales.DeleteSale(f.ctx, f.actor, sale.ID)
		assert.True(t, errors.Is(err, shared.ErrInvalidState), "only cancelled sales are deleted")

		_, err = f.payments.CancelPayment(f.ctx, f.actor, payment.ID)
		require.NoError(t, err)
		_, err = f.sales.CancelSale(f.ctx, f.actor, sale.ID)
		require.NoError(t, err)

		err = f.sales.DeleteSale(f.ctx, f.actor, sale.ID)
		assert.True(t, errors.Is(err, shared.ErrInvalidState), "the cancelled payment still references the sale")

		require.NoError(t, f.payments.DeletePayment(f.ctx, f.actor, payment.ID))
		require.NoError(t, f.sales.DeleteSale(f.ctx, f.actor, sale.ID))
	})

	t.Run("credit sale gives back stock and credit", func(t *testing.T) {
		f := newFixture(t)
		f.creditLimit(t, "100")
		p := f.product(t, "30", 3)
		sale := f.createSale(t, true, line{p, 2})
		require.Equal(t, int64(1), f.stock(t, p))

		cancelled, err := f.sales.CancelSale(f.ctx, f.actor, sale.ID)
		require.NoError(t, err)
		assert.False(t, cancelled.StockDeducted)
		assert.Equal(t, int64(3), f.stock(t, p))
		assert.True(t, f.currentCredit(t).IsZero())

		ledger, err := f.accounts.ListLedger(f.ctx, f.clientID)
		require.NoError(t, err)
		kinds := make([]string, len(ledger))
		for i, e := range ledger {
			kinds[i] = e.Kind
		}
		assert.ElementsMatch(t, []string{"charge", "release"}, kinds)
	})
}

func TestPaymentService_CancelReopensSale(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	sale := f.createSale(t, false, line{p, 1})

	first, err := f.pay(sale.ID, "4")
	require.NoError(t, err)
	assert.Equal(t, string(trade.PaymentStatusPartial), first.Status)
	assert.Equal(t, string(trade.SaleStatusPending), first.SaleStatus)

	second, err := f.pay(sale.ID, "6")
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCompleted), second.SaleStatus)
	assert.Equal(t, int64(4), f.stock(t, p))

	cancelled, err := f.payments.CancelPayment(f.ctx, f.actor, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusPending), cancelled.SaleStatus)
	assert.Equal(t, int64(4), f.stock(t, p), "cancelling a payment never moves stock")

	_, err = f.payments.CancelPayment(f.ctx, f.actor, first.ID)
	assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))

	err = f.payments.DeletePayment(f.ctx, f.actor, second.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "live payments cannot be deleted")

	listed, err := f.payments.ListPaymentsBySale(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = f.pay(sale.ID, "4")
	require.NoError(t, err)
	got, err := f.sales.GetSale(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCompleted), got.Status)
	assert.Equal(t, int64(4), f.stock(t, p), "stock is taken once")
}

func TestPaymentService_BalancePayment(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "25", 5)
	sale := f.createSale(t, false, line{p, 2})

	req := AddPaymentRequest{
		SaleID:      sale.ID,
		ClientID:    f.clientID,
		CurrencyID:  f.currencyID,
		Amount:      dec("20"),
		PaymentType: string(trade.PaymentTypeBalance),
	}
	_, err := f.payments.AddPayment(f.ctx, f.actor, req)
	assert.True(t, errors.Is(err, shared.ErrInsufficientBalance), "no balance yet")

	_, err = f.accounts.DepositBalance(f.ctx, f.actor, f.clientID, apppartner.DepositRequest{
		CurrencyID: f.currencyID,
		Amount:     dec("30"),
	})
	require.NoError(t, err)

	payment, err := f.payments.AddPayment(f.ctx, f.actor, req)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(f.balance(t)))

	req.Amount = dec("15")
	_, err = f.payments.AddPayment(f.ctx, f.actor, req)
	assert.True(t, errors.Is(err, shared.ErrInsufficientBalance))
	assert.True(t, dec("10").Equal(f.balance(t)), "failed payment leaves the balance alone")

	_, err = f.payments.CancelPayment(f.ctx, f.actor, payment.ID)
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(f.balance(t)))
}

func TestReturnService_CreditSale(t *testing.T) {
	f := newFixture(t)
	f.creditLimit(t, "100")
	p := f.product(t, "25", 4)
	sale := f.createSale(t, true, line{p, 2})

	ret, err := f.returnGoods(sale.ID, line{p, 1})
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(ret.CreditReleased))
	assert.True(t, ret.RefundEligible.IsZero(), "nothing was paid in cash")
	assert.Nil(t, ret.RefundID)
	assert.True(t, dec("25").Equal(f.currentCredit(t)))
	assert.Equal(t, int64(3), f.stock(t, p))

	_, err = f.refunds.GetRefundBySale(f.ctx, sale.ID)
	assert.True(t, shared.IsNotFound(err))

	cancelled, err := f.returns.CancelReturn(f.ctx, f.actor, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PaymentStatusCancelled), cancelled.Status)
	assert.True(t, dec("50").Equal(f.currentCredit(t)))
	assert.Equal(t, int64(2), f.stock(t, p))

	got, err := f.sales.GetSale(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(got.TotalAmount))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(2), got.Lines[0].Quantity)
}

func TestReturnService_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	other := f.product(t, "10", 5)
	sale := f.createSale(t, false, line{p, 2})

	_, err := f.returnGoods(sale.ID, line{p, 3})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, trade.CodeReturnExceedsSold, domainErr.Code)

	_, err = f.returnGoods(sale.ID, line{other, 1})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, trade.CodeReturnExceedsSold, domainErr.Code)

	ret, err := f.returnGoods(sale.ID, line{p, 1})
	require.NoError(t, err)
	assert.False(t, ret.StockRestocked, "an unpaid cash sale never took stock")
	assert.Equal(t, int64(5), f.stock(t, p))

	_, err = f.sales.CancelSale(f.ctx, f.actor, sale.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "a pending return blocks cancellation")

	edited, err := f.returns.EditReturn(f.ctx, f.actor, ret.ID, EditReturnRequest{
		Lines: []ReturnLineInput{{ProductID: p, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(edited.TotalRefundAmount))

	got, err := f.sales.GetSale(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.IsZero())
	assert.Empty(t, got.Lines)
}

func TestRefundService_CancelRefundPayment(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 5)
	sale := f.createSale(t, false, line{p, 3})
	_, err := f.pay(sale.ID, "30")
	require.NoError(t, err)

	ret, err := f.returnGoods(sale.ID, line{p, 2})
	require.NoError(t, err)
	require.NotNil(t, ret.RefundID)
	refundID := *ret.RefundID

	rp, err := f.refunds.AddRefundPayment(f.ctx, f.actor, refundID, AddRefundPaymentRequest{Amount: dec("5")})
	require.NoError(t, err)

	refund, err := f.refunds.GetRefund(f.ctx, refundID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PaymentStatusPartial), refund.Status)
	assert.True(t, dec("15").Equal(refund.TotalRefundAmount))

	_, err = f.refunds.CancelRefund(f.ctx, f.actor, refundID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "live refund payments block cancellation")

	_, err = f.refunds.CancelRefundPayment(f.ctx, f.actor, rp.ID)
	require.NoError(t, err)
	refund, err = f.refunds.GetRefund(f.ctx, refundID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PaymentStatusPending), refund.Status)
	assert.True(t, dec("20").Equal(refund.TotalRefundAmount))

	require.NoError(t, f.refunds.DeleteRefundPayment(f.ctx, f.actor, rp.ID))
	payments, err := f.refunds.ListRefundPayments(f.ctx, refundID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	updated, err := f.refunds.UpdateRefundRemarks(f.ctx, f.actor, refundID, UpdateRefundRequest{Remarks: "store credit"})
	require.NoError(t, err)
	assert.Equal(t, "store credit", updated.Remarks)

	cancelled, err := f.refunds.CancelRefund(f.ctx, f.actor, refundID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PaymentStatusCancelled), cancelled.Status)

	_, err = f.refunds.AddRefundPayment(f.ctx, f.actor, refundID, AddRefundPaymentRequest{Amount: dec("1")})
	assert.True(t, errors.Is(err, shared.ErrAlreadyFinalized))
}

func TestPurchaseOrderService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "10", 0)

	order, err := f.orders.CreatePurchaseOrder(f.ctx, f.actor, CreatePurchaseOrderRequest{
		SupplierName: "Wholesale Ltd",
		Lines:        []PurchaseOrderLineInput{{ProductID: p, Quantity: 5, UnitCost: dec("6.5")}},
	})
	require.NoError(t, err)
	assert.True(t, dec("32.5").Equal(order.TotalCost))
	assert.Regexp(t, `^PO-`, order.OrderNumber)
	assert.Equal(t, int64(0), f.stock(t, p), "ordering does not move stock")

	completed, err := f.orders.CompletePurchaseOrder(f.ctx, f.actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCompleted), completed.Status)
	assert.Equal(t, int64(5), f.stock(t, p))

	_, err = f.orders.CompletePurchaseOrder(f.ctx, f.actor, order.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	f.creditLimit(t, "100")
	f.createSale(t, true, line{p, 4})
	_, err = f.orders.CancelPurchaseOrder(f.ctx, f.actor, order.ID)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock), "received stock that was sold cannot be reversed")
	assert.Equal(t, int64(1), f.stock(t, p))

	pending, err := f.orders.CreatePurchaseOrder(f.ctx, f.actor, CreatePurchaseOrderRequest{
		SupplierName: "Wholesale Ltd",
		Lines:        []PurchaseOrderLineInput{{ProductID: p, Quantity: 1, UnitCost: dec("6.5")}},
	})
	require.NoError(t, err)
	cancelled, err := f.orders.CancelPurchaseOrder(f.ctx, f.actor, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.SaleStatusCancelled), cancelled.Status)
	assert.Equal(t, int64(1), f.stock(t, p))

	movements, err := f.catalog.ListStockMovements(f.ctx, p, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 2, "one receipt and one sale")
}
