package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundPayment is money handed back against a refund. It is created
// completed; cancelling it re-credits the refund.
type RefundPayment struct {
	shared.BaseAggregateRoot
	RefundID   uuid.UUID
	SaleID     uuid.UUID
	Amount     decimal.Decimal
	Status     PaymentStatus
	Remarks    string
	CreatedBy  uuid.UUID
	CanceledBy *uuid.UUID
	CanceledAt *time.Time
	Logs       shared.ActivityLog
}

func newRefundPayment(r *Refund, amount decimal.Decimal, remarks string, actor uuid.UUID) *RefundPayment {
	return &RefundPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RefundID:          r.ID,
		SaleID:            r.SaleID,
		Amount:            amount,
		Status:            PaymentStatusCompleted,
		Remarks:           remarks,
		CreatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, ""),
	}
}

// IsCancelled reports whether the refund payment is cancelled
func (p *RefundPayment) IsCancelled() bool {
	return p.Status == PaymentStatusCancelled
}

func (p *RefundPayment) cancel(actor uuid.UUID) error {
	if p.IsCancelled() {
		return shared.AlreadyFinalized("refund payment", string(p.Status))
	}
	now := time.Now()
	p.Status = PaymentStatusCancelled
	p.CanceledBy = &actor
	p.CanceledAt = &now
	p.Logs = p.Logs.Append("cancelled", actor, "")
	p.Touch()
	return nil
}

// EnsureDeletable allows deleting only a cancelled refund payment
func (p *RefundPayment) EnsureDeletable() error {
	if !p.IsCancelled() {
		return shared.InvalidState("refund payment", string(PaymentStatusCancelled), string(p.Status))
	}
	return nil
}
