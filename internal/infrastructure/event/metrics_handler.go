package event

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
)

// MetricsHandler feeds trade events into the business counters
type MetricsHandler struct {
	metrics *telemetry.BusinessMetrics
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(metrics *telemetry.BusinessMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes implements shared.EventHandler
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		trade.EventTypeSaleCreated,
		trade.EventTypeSaleCancelled,
		trade.EventTypePaymentRecorded,
		trade.EventTypePaymentCancelled,
		trade.EventTypeReturnCreated,
		trade.EventTypeRefundPaid,
	}
}

// Handle implements shared.EventHandler
func (h *MetricsHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.metrics == nil {
		return nil
	}
	switch e := ev.(type) {
	case *trade.SaleCreatedEvent:
		h.metrics.RecordSaleCreated(ctx, saleKind(e.CreditSale), e.CurrencyCode, e.TotalAmount)
	case *trade.SaleCancelledEvent:
		h.metrics.RecordSaleCancelled(ctx, saleKind(e.CreditSale))
	case *trade.PaymentRecordedEvent:
		h.metrics.RecordPayment(ctx, string(e.PaymentType), e.CurrencyCode, e.Amount)
	case *trade.PaymentCancelledEvent:
		h.metrics.RecordPaymentCancelled(ctx, e.CurrencyCode)
	case *trade.ReturnCreatedEvent:
		h.metrics.RecordReturn(ctx, e.CurrencyCode, e.Amount)
	case *trade.RefundPaidEvent:
		h.metrics.RecordRefundPaid(ctx, e.CurrencyCode, e.Amount)
	}
	return nil
}

func saleKind(credit bool) string {
	if credit {
		return telemetry.SaleKindCredit
	}
	return telemetry.SaleKindCash
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
