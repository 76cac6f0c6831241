package trade

import (
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderLine is one product line of a purchase order
type PurchaseOrderLine struct {
	ProductID   uuid.UUID
	ProductCode string
	Quantity    int64
	UnitCost    decimal.Decimal
	Total       decimal.Decimal
}

// PurchaseOrder brings stock in from a supplier. Stock moves only when it completes.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	SupplierName string
	Lines        []PurchaseOrderLine
	TotalCost    decimal.Decimal
	Status       SaleStatus
	Remarks      string
	CreatedBy    uuid.UUID
	CompletedBy  *uuid.UUID
	CompletedAt  *time.Time
	CanceledBy   *uuid.UUID
	CanceledAt   *time.Time
	Logs         shared.ActivityLog
}

// NewPurchaseOrder creates a pending purchase order
func NewPurchaseOrder(number, supplier string, lines []PurchaseOrderLine, remarks string, actor uuid.UUID) (*PurchaseOrder, error) {
	if supplier == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A purchase order needs at least one line")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	total := decimal.Zero
	for i := range lines {
		l := &lines[i]
		if _, dup := seen[l.ProductID]; dup {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Product %s appears more than once", l.ProductID))
		}
		seen[l.ProductID] = struct{}{}
		if l.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if l.UnitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
		}
		l.Total = shared.Round2(l.UnitCost.Mul(decimal.NewFromInt(l.Quantity)))
		total = total.Add(l.Total)
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       number,
		SupplierName:      supplier,
		Lines:             lines,
		TotalCost:         shared.Round2(total),
		Status:            SaleStatusPending,
		Remarks:           remarks,
		CreatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, ""),
	}, nil
}

// Quantities sums line quantities per product
func (o *PurchaseOrder) Quantities() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(o.Lines))
	for _, l := range o.Lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

// Complete marks the order received. The caller increments stock.
func (o *PurchaseOrder) Complete(actor uuid.UUID) error {
	if o.Status != SaleStatusPending {
		return shared.InvalidState("purchase order", string(SaleStatusPending), string(o.Status))
	}
	now := time.Now()
	o.Status = SaleStatusCompleted
	o.CompletedBy = &actor
	o.CompletedAt = &now
	o.Logs = o.Logs.Append("completed", actor, "")
	o.Touch()
	return nil
}

// Cancel cancels the order and reports whether received stock must be reversed
func (o *PurchaseOrder) Cancel(actor uuid.UUID) (bool, error) {
	if o.Status == SaleStatusCancelled {
		return false, shared.AlreadyFinalized("purchase order", string(o.Status))
	}
	received := o.Status == SaleStatusCompleted
	now := time.Now()
	o.Status = SaleStatusCancelled
	o.CanceledBy = &actor
	o.CanceledAt = &now
	o.Logs = o.Logs.Append("cancelled", actor, "")
	o.Touch()
	return received, nil
}
