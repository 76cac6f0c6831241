package event

import (
	"context"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]float64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]float64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += dp.Value
				}
			}
		}
	}
	return out
}

func TestMetricsHandler_ThroughBus(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	bm, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewMetricsHandler(bm))

	actor := uuid.New()
	saleID := uuid.New()
	events := []shared.DomainEvent{
		&trade.SaleCreatedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeSaleCreated, trade.AggregateTypeSale, saleID, actor),
			CurrencyCode:    "USD",
			TotalAmount:     decimal.NewFromInt(100),
			CreditSale:      true,
		},
		&trade.PaymentRecordedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypePaymentRecorded, trade.AggregateTypePayment, uuid.New(), actor),
			SaleID:          saleID,
			Amount:          decimal.NewFromInt(40),
			CurrencyCode:    "USD",
			PaymentType:     trade.PaymentTypeCash,
		},
		&trade.RefundPaidEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypeRefundPaid, trade.AggregateTypeRefund, uuid.New(), actor),
			SaleID:          saleID,
			Amount:          decimal.NewFromInt(15),
			CurrencyCode:    "USD",
		},
	}
	require.NoError(t, bus.Publish(context.Background(), events...))

	sums := collectSums(t, reader)
	assert.Equal(t, 1.0, sums["backoffice_sales_created_total"])
	assert.Equal(t, 100.0, sums["backoffice_sale_amount_total"])
	assert.Equal(t, 1.0, sums["backoffice_payments_total"])
	assert.Equal(t, 40.0, sums["backoffice_payment_amount_total"])
	assert.Equal(t, 15.0, sums["backoffice_refund_paid_total"])
}

func TestMetricsHandler_NilMetrics(t *testing.T) {
	h := NewMetricsHandler(nil)
	ev := newTestEvent(trade.EventTypeSaleCreated)

	assert.NoError(t, h.Handle(context.Background(), ev))
}

func TestAuditHandler_LogsEveryEvent(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewAuditHandler(zap.New(core)))

	ctx := logger.WithRequestID(context.Background(), "req-42")
	require.NoError(t, bus.Publish(ctx, newTestEvent("SaleCreated"), newTestEvent("CurrencyRateChanged")))

	logs := recorded.FilterMessage("domain event").All()
	require.Len(t, logs, 2)
	assert.Equal(t, "SaleCreated", logs[0].ContextMap()["event_type"])
	assert.Equal(t, "req-42", logs[0].ContextMap()["request_id"])
	assert.Equal(t, "audit", logs[0].LoggerName)
}
