package trade

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryService hands the goods of sales over to clients
type DeliveryService struct {
	serviceBase
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(scope txscope.Scope, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{serviceBase: newServiceBase(scope, logger)}
}

// CreateDelivery schedules a delivery for a sale that is not cancelled. A
// sale has at most one open delivery at a time.
func (s *DeliveryService) CreateDelivery(ctx context.Context, actor, saleID uuid.UUID, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "delivery", "create")
	defer span.End()
	telemetry.SetAttributes(span, "sale_id", saleID.String(), "method", req.Method)

	var delivery *trade.Delivery
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		sale, err := lockSale(ctx, repos, saleID)
		if err != nil {
			return err
		}
		open, err := repos.Deliveries().CountPendingBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return shared.InvalidState("sale", "without an open delivery", "delivery pending")
		}

		delivery, err = trade.NewDelivery(sale, trade.DeliveryMethod(req.Method), req.Address, req.Remarks, actor)
		if err != nil {
			return err
		}
		if err := repos.Deliveries().Save(ctx, delivery); err != nil {
			return err
		}
		events.Collect(delivery)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("delivery scheduled",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("sale_id", delivery.SaleID.String()),
		zap.String("method", string(delivery.Method)),
	)
	resp := ToDeliveryResponse(delivery)
	return &resp, nil
}

// CompleteDelivery records that the goods were handed over
func (s *DeliveryService) CompleteDelivery(ctx context.Context, actor, id uuid.UUID) (*DeliveryResponse, error) {
	return s.transition(ctx, "complete", id, func(sale *trade.Sale, d *trade.Delivery) error {
		return d.Complete(sale, actor)
	})
}

// CancelDelivery cancels an open delivery
func (s *DeliveryService) CancelDelivery(ctx context.Context, actor, id uuid.UUID) (*DeliveryResponse, error) {
	return s.transition(ctx, "cancel", id, func(_ *trade.Sale, d *trade.Delivery) error {
		return d.Cancel(actor, "")
	})
}

// transition locks the delivery's sale, then the delivery, and applies fn
func (s *DeliveryService) transition(ctx context.Context, op string, id uuid.UUID, fn func(*trade.Sale, *trade.Delivery) error) (*DeliveryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "delivery", op)
	defer span.End()
	telemetry.SetAttributes(span, "delivery_id", id.String())

	var delivery *trade.Delivery
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		unlocked, err := repos.Deliveries().FindByID(ctx, id)
		if err != nil {
			return err
		}
		sale, err := lockSale(ctx, repos, unlocked.SaleID)
		if err != nil {
			return err
		}
		delivery, err = repos.Deliveries().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(sale, delivery); err != nil {
			return err
		}
		if err := repos.Deliveries().SaveWithLock(ctx, delivery); err != nil {
			return err
		}
		events.Collect(delivery)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("delivery updated",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("status", string(delivery.Status)),
	)
	resp := ToDeliveryResponse(delivery)
	return &resp, nil
}

// GetDelivery returns a delivery by id
func (s *DeliveryService) GetDelivery(ctx context.Context, id uuid.UUID) (*DeliveryResponse, error) {
	var resp DeliveryResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		d, err := repos.Deliveries().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToDeliveryResponse(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDeliveriesBySale returns every delivery of a sale
func (s *DeliveryService) ListDeliveriesBySale(ctx context.Context, saleID uuid.UUID) ([]DeliveryResponse, error) {
	var out []DeliveryResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		if _, err := repos.Sales().FindByID(ctx, saleID); err != nil {
			return err
		}
		deliveries, err := repos.Deliveries().ListBySale(ctx, saleID)
		if err != nil {
			return err
		}
		out = make([]DeliveryResponse, len(deliveries))
		for i := range deliveries {
			out[i] = ToDeliveryResponse(&deliveries[i])
		}
		return nil
	})
	return out, err
}
