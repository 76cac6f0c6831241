package trade

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source types recorded on stock movements
const (
	sourceSale          = "sale"
	sourceReturn        = "sale_return"
	sourcePurchaseOrder = "purchase_order"
)

// stockPlan is a set of signed per-product stock deltas applied under one reason
type stockPlan struct {
	deltas map[uuid.UUID]int64
	reason catalog.MovementReason
	source catalog.SourceRef
}

func newStockPlan(reason catalog.MovementReason, sourceType string, sourceID uuid.UUID) *stockPlan {
	return &stockPlan{
		deltas: make(map[uuid.UUID]int64),
		reason: reason,
		source: catalog.SourceRef{Type: sourceType, ID: sourceID},
	}
}

func (p *stockPlan) add(quantities map[uuid.UUID]int64, sign int64) *stockPlan {
	for id, q := range quantities {
		p.deltas[id] += sign * q
	}
	return p
}

func (p *stockPlan) merge(deltas map[uuid.UUID]int64) *stockPlan {
	for id, d := range deltas {
		p.deltas[id] += d
	}
	return p
}

func (p *stockPlan) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.deltas))
	for id, d := range p.deltas {
		if d != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// apply adjusts every product in id order. Nothing is written until all
// adjustments succeed, so an InsufficientStock leaves storage untouched.
func (p *stockPlan) apply(ctx context.Context, repos txscope.Repositories, products map[uuid.UUID]*catalog.Product, actor uuid.UUID, events *txscope.EventCollector) error {
	var (
		touched   []*catalog.Product
		movements []*catalog.StockMovement
	)
	for _, id := range trade.SortedIDs(p.deltas) {
		delta := p.deltas[id]
		if delta == 0 {
			continue
		}
		product, ok := products[id]
		if !ok {
			return shared.NotFound("product", id)
		}
		mv, err := product.Adjust(delta, p.reason, p.source, actor)
		if err != nil {
			return err
		}
		touched = append(touched, product)
		movements = append(movements, mv)
	}
	if len(touched) == 0 {
		return nil
	}

	for _, product := range touched {
		if err := repos.Products().SaveWithLock(ctx, product); err != nil {
			return err
		}
		events.Collect(product)
	}
	return repos.StockMovements().Append(ctx, movements...)
}

// lockAndApply locks the plan's products and applies it
func (p *stockPlan) lockAndApply(ctx context.Context, repos txscope.Repositories, actor uuid.UUID, events *txscope.EventCollector) error {
	ids := p.productIDs()
	if len(ids) == 0 {
		return nil
	}
	products, err := lockProducts(ctx, repos, ids)
	if err != nil {
		return err
	}
	return p.apply(ctx, repos, products, actor, events)
}

// settleSale recomputes a cash sale's status against what has been paid and,
// when the sale has just become completed, takes its stock if it holds none
func settleSale(ctx context.Context, repos txscope.Repositories, sale *trade.Sale, paid decimal.Decimal, actor uuid.UUID, events *txscope.EventCollector) error {
	if !sale.RecomputeStatus(paid, actor) || sale.StockDeducted {
		return nil
	}
	plan := newStockPlan(catalog.ReasonSale, sourceSale, sale.ID).add(trade.Quantities(sale.Lines), -1)
	if err := plan.lockAndApply(ctx, repos, actor, events); err != nil {
		return err
	}
	sale.MarkStockDeducted()
	return nil
}
