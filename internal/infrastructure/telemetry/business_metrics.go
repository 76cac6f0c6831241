package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when NewBusinessMetrics is called without a meter
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// Sale kinds used as the sale_kind attribute
const (
	SaleKindCash   = "cash"
	SaleKindCredit = "credit"
)

// BusinessMetrics counts sales, payments, returns and refunds.
type BusinessMetrics struct {
	salesCreated      *Counter
	salesCancelled    *Counter
	saleAmount        *AmountCounter
	payments          *Counter
	paymentAmount     *AmountCounter
	paymentsCancelled *Counter
	returns           *Counter
	returnAmount      *AmountCounter
	refundAmount      *AmountCounter
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error
	if bm.salesCreated, err = NewCounter(meter, "backoffice_sales_created_total", "Sales created", "{sales}"); err != nil {
		return nil, err
	}
	if bm.salesCancelled, err = NewCounter(meter, "backoffice_sales_cancelled_total", "Sales cancelled", "{sales}"); err != nil {
		return nil, err
	}
	if bm.saleAmount, err = NewAmountCounter(meter, "backoffice_sale_amount_total", "Total amount of created sales"); err != nil {
		return nil, err
	}
	if bm.payments, err = NewCounter(meter, "backoffice_payments_total", "Payments recorded", "{payments}"); err != nil {
		return nil, err
	}
	if bm.paymentAmount, err = NewAmountCounter(meter, "backoffice_payment_amount_total", "Total amount of recorded payments"); err != nil {
		return nil, err
	}
	if bm.paymentsCancelled, err = NewCounter(meter, "backoffice_payments_cancelled_total", "Payments cancelled", "{payments}"); err != nil {
		return nil, err
	}
	if bm.returns, err = NewCounter(meter, "backoffice_returns_total", "Sale returns created", "{returns}"); err != nil {
		return nil, err
	}
	if bm.returnAmount, err = NewAmountCounter(meter, "backoffice_return_amount_total", "Total value of returned goods"); err != nil {
		return nil, err
	}
	if bm.refundAmount, err = NewAmountCounter(meter, "backoffice_refund_paid_total", "Total amount refunded to clients"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordSaleCreated counts a new sale and its amount.
func (m *BusinessMetrics) RecordSaleCreated(ctx context.Context, kind, currency string, amount decimal.Decimal) {
	m.salesCreated.Inc(ctx, AttrSaleKind.String(kind), AttrCurrency.String(currency))
	m.saleAmount.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
}

// RecordSaleCancelled counts a cancelled sale.
func (m *BusinessMetrics) RecordSaleCancelled(ctx context.Context, kind string) {
	m.salesCancelled.Inc(ctx, AttrSaleKind.String(kind))
}

// RecordPayment counts a recorded payment and its amount.
func (m *BusinessMetrics) RecordPayment(ctx context.Context, paymentType, currency string, amount decimal.Decimal) {
	m.payments.Inc(ctx, AttrPaymentType.String(paymentType), AttrCurrency.String(currency))
	m.paymentAmount.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
}

// RecordPaymentCancelled counts a cancelled payment.
func (m *BusinessMetrics) RecordPaymentCancelled(ctx context.Context, currency string) {
	m.paymentsCancelled.Inc(ctx, AttrCurrency.String(currency))
}

// RecordReturn counts a sale return and the value of the goods.
func (m *BusinessMetrics) RecordReturn(ctx context.Context, currency string, amount decimal.Decimal) {
	m.returns.Inc(ctx, AttrCurrency.String(currency))
	m.returnAmount.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
}

// RecordRefundPaid adds money handed back to a client.
func (m *BusinessMetrics) RecordRefundPaid(ctx context.Context, currency string, amount decimal.Decimal) {
	m.refundAmount.Add(ctx, amount.InexactFloat64(), AttrCurrency.String(currency))
}
