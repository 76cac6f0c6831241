package event

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditHandler writes one structured log line per committed event
type AuditHandler struct {
	logger *zap.Logger
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(l *zap.Logger) *AuditHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuditHandler{logger: l.Named("audit")}
}

// EventTypes returns nil, the handler receives every event
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (h *AuditHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	logger.Enrich(ctx, h.logger).Info("domain event",
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.String("actor_id", ev.ActorID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*AuditHandler)(nil)
