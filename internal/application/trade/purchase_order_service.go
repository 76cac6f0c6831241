package trade

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService brings stock in from suppliers
type PurchaseOrderService struct {
	serviceBase
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(scope txscope.Scope, logger *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{serviceBase: newServiceBase(scope, logger)}
}

// CreatePurchaseOrder records a pending order. Stock does not move yet.
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, actor uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create")
	defer span.End()

	var order *trade.PurchaseOrder
	err := s.execute(ctx, func(repos txscope.Repositories, _ *txscope.EventCollector) error {
		ids := make([]uuid.UUID, len(req.Lines))
		for i, l := range req.Lines {
			ids[i] = l.ProductID
		}
		found, err := repos.Products().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		products := make(map[uuid.UUID]*catalog.Product, len(found))
		for i := range found {
			products[found[i].ID] = &found[i]
		}

		lines := make([]trade.PurchaseOrderLine, len(req.Lines))
		for i, l := range req.Lines {
			p, ok := products[l.ProductID]
			if !ok {
				return shared.NotFound("product", l.ProductID)
			}
			lines[i] = trade.PurchaseOrderLine{
				ProductID:   p.ID,
				ProductCode: p.Code,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
			}
		}

		order, err = trade.NewPurchaseOrder(newDocumentNumber(purchaseOrderNumberPrefix), req.SupplierName, lines, req.Remarks, actor)
		if err != nil {
			return err
		}
		return repos.PurchaseOrders().Save(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total_cost", order.TotalCost.StringFixed(2)),
	)
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// CompletePurchaseOrder receives the order and increments stock per line
func (s *PurchaseOrderService) CompletePurchaseOrder(ctx context.Context, actor, id uuid.UUID) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "complete")
	defer span.End()
	telemetry.SetAttributes(span, "order_id", id.String())

	var order *trade.PurchaseOrder
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Complete(actor); err != nil {
			return err
		}
		plan := newStockPlan(catalog.ReasonPurchaseReceive, sourcePurchaseOrder, order.ID).add(order.Quantities(), 1)
		if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("purchase order completed", zap.String("order_id", order.ID.String()))
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// CancelPurchaseOrder cancels an order. A received order takes its stock
// back out, which fails with InsufficientStock once that stock has been sold.
func (s *PurchaseOrderService) CancelPurchaseOrder(ctx context.Context, actor, id uuid.UUID) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, "order_id", id.String())

	var order *trade.PurchaseOrder
	err := s.execute(ctx, func(repos txscope.Repositories, events *txscope.EventCollector) error {
		var err error
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		received, err := order.Cancel(actor)
		if err != nil {
			return err
		}
		if received {
			plan := newStockPlan(catalog.ReasonPurchaseReversal, sourcePurchaseOrder, order.ID).add(order.Quantities(), -1)
			if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("purchase order cancelled", zap.String("order_id", order.ID.String()))
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// GetPurchaseOrder returns a purchase order by id
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	var resp PurchaseOrderResponse
	err := s.read(ctx, func(repos txscope.Repositories) error {
		o, err := repos.PurchaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToPurchaseOrderResponse(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
