package catalog

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeProduct = "Product"

	EventTypeStockAdjusted = "StockAdjusted"
)

// StockAdjustedEvent is raised whenever on-hand quantity changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID      `json:"product_id"`
	ProductCode    string         `json:"product_code"`
	Delta          int64          `json:"delta"`
	QuantityBefore int64          `json:"quantity_before"`
	QuantityAfter  int64          `json:"quantity_after"`
	Reason         MovementReason `json:"reason"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(p *Product, before, delta int64, reason MovementReason, actor uuid.UUID) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeProduct, p.ID, actor),
		ProductID:       p.ID,
		ProductCode:     p.Code,
		Delta:           delta,
		QuantityBefore:  before,
		QuantityAfter:   p.StockQuantity,
		Reason:          reason,
	}
}
