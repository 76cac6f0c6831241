package catalog

import (
	"time"

	"github.com/google/uuid"
)

// MovementReason is the causal event behind a stock change
type MovementReason string

const (
	ReasonOpening          MovementReason = "opening"
	ReasonSale             MovementReason = "sale"
	ReasonSaleEdit         MovementReason = "sale_edit"
	ReasonSaleCancel       MovementReason = "sale_cancel"
	ReasonReturn           MovementReason = "return"
	ReasonReturnEdit       MovementReason = "return_edit"
	ReasonReturnCancel     MovementReason = "return_cancel"
	ReasonPurchaseReceive  MovementReason = "purchase_receive"
	ReasonPurchaseReversal MovementReason = "purchase_reversal"
)

// IsValid reports whether the reason is one of the known causes
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonOpening, ReasonSale, ReasonSaleEdit, ReasonSaleCancel,
		ReasonReturn, ReasonReturnEdit, ReasonReturnCancel,
		ReasonPurchaseReceive, ReasonPurchaseReversal:
		return true
	}
	return false
}

// SourceRef points at the document that caused a movement
type SourceRef struct {
	Type string
	ID   uuid.UUID
}

// StockMovement is an append-only stock ledger entry
type StockMovement struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Delta         int64
	QuantityAfter int64
	Reason        MovementReason
	SourceType    string
	SourceID      uuid.UUID
	ActorID       uuid.UUID
	CreatedAt     time.Time
}

// NewStockMovement creates a ledger entry
func NewStockMovement(productID uuid.UUID, delta, after int64, reason MovementReason, source SourceRef, actor uuid.UUID) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		ProductID:     productID,
		Delta:         delta,
		QuantityAfter: after,
		Reason:        reason,
		SourceType:    source.Type,
		SourceID:      source.ID,
		ActorID:       actor,
		CreatedAt:     time.Now(),
	}
}
