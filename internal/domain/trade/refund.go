package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund aggregates what a sale owes its client back after returns.
// TotalRefundAmount is the outstanding amount and only refund payments decrease it.
// A sale has at most one active (pending or partial) refund.
type Refund struct {
	shared.BaseAggregateRoot
	SaleID            uuid.UUID
	ClientID          uuid.UUID
	CurrencyID        uuid.UUID
	CurrencyCode      string
	TotalRefundAmount decimal.Decimal
	RefundedAmount    decimal.Decimal
	Status            PaymentStatus
	Remarks           string
	CreatedBy         uuid.UUID
	CanceledBy        *uuid.UUID
	CanceledAt        *time.Time
	Logs              shared.ActivityLog
}

// NewRefund opens a pending refund for a sale
func NewRefund(sale *Sale, amount decimal.Decimal, actor uuid.UUID) (*Refund, error) {
	if !shared.MoneyPositive(amount) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	return &Refund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            sale.ID,
		ClientID:          sale.ClientID,
		CurrencyID:        sale.CurrencyID,
		CurrencyCode:      sale.CurrencyCode,
		TotalRefundAmount: shared.Round2(amount),
		RefundedAmount:    decimal.Zero,
		Status:            PaymentStatusPending,
		CreatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, shared.Round2(amount).StringFixed(2)),
	}, nil
}

// IsActive reports pending or partial
func (r *Refund) IsActive() bool {
	return r.Status.IsActive()
}

func (r *Refund) ensureActive() error {
	if !r.IsActive() {
		return shared.AlreadyFinalized("refund", string(r.Status))
	}
	return nil
}

// Increase adds a further eligible amount from another return
func (r *Refund) Increase(amount decimal.Decimal, actor uuid.UUID) error {
	if err := r.ensureActive(); err != nil {
		return err
	}
	if !shared.MoneyPositive(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	r.TotalRefundAmount = shared.Round2(r.TotalRefundAmount.Add(amount))
	r.Logs = r.Logs.Append("increased", actor, shared.Round2(amount).StringFixed(2))
	r.Touch()
	return nil
}

// Decrease takes back an amount granted by a cancelled or edited return.
// The outstanding amount is floored at zero and the status resets to pending at zero.
func (r *Refund) Decrease(amount decimal.Decimal, actor uuid.UUID) {
	if !amount.IsPositive() {
		return
	}
	r.TotalRefundAmount = shared.FloorZero(shared.Round2(r.TotalRefundAmount.Sub(amount)))
	if r.TotalRefundAmount.IsZero() && r.IsActive() {
		r.Status = PaymentStatusPending
	}
	r.Logs = r.Logs.Append("decreased", actor, shared.Round2(amount).StringFixed(2))
	r.Touch()
}

// AddPayment hands money back to the client. The amount must lie in (0, outstanding].
func (r *Refund) AddPayment(amount decimal.Decimal, remarks string, actor uuid.UUID) (*RefundPayment, error) {
	if err := r.ensureActive(); err != nil {
		return nil, err
	}
	if !shared.MoneyPositive(amount) || shared.MoneyGreater(amount, r.TotalRefundAmount) {
		return nil, shared.InsufficientFunds(amount, r.TotalRefundAmount)
	}

	amount = shared.Round2(amount)
	r.TotalRefundAmount = shared.Round2(r.TotalRefundAmount.Sub(amount))
	r.RefundedAmount = shared.Round2(r.RefundedAmount.Add(amount))
	if r.TotalRefundAmount.IsZero() {
		r.Status = PaymentStatusCompleted
	} else {
		r.Status = PaymentStatusPartial
	}
	r.Logs = r.Logs.Append("paid", actor, amount.StringFixed(2))
	r.Touch()

	p := newRefundPayment(r, amount, remarks, actor)
	r.AddDomainEvent(NewRefundPaidEvent(r, p, actor))
	return p, nil
}

// RevertPayment cancels a refund payment and puts its amount back outstanding.
// The refund returns to partial, or pending when nothing remains refunded.
func (r *Refund) RevertPayment(p *RefundPayment, actor uuid.UUID) error {
	if p.RefundID != r.ID {
		return shared.NewDomainError(shared.CodeInvalidInput, "Refund payment belongs to another refund")
	}
	if r.Status == PaymentStatusCancelled {
		return shared.AlreadyFinalized("refund", string(r.Status))
	}
	if err := p.cancel(actor); err != nil {
		return err
	}

	r.TotalRefundAmount = shared.Round2(r.TotalRefundAmount.Add(p.Amount))
	r.RefundedAmount = shared.FloorZero(shared.Round2(r.RefundedAmount.Sub(p.Amount)))
	if r.RefundedAmount.IsPositive() {
		r.Status = PaymentStatusPartial
	} else {
		r.Status = PaymentStatusPending
	}
	r.Logs = r.Logs.Append("payment_cancelled", actor, p.Amount.StringFixed(2))
	r.Touch()
	return nil
}

// UpdateRemarks replaces the remarks
func (r *Refund) UpdateRemarks(remarks string, actor uuid.UUID) error {
	if r.Status == PaymentStatusCancelled {
		return shared.AlreadyFinalized("refund", string(r.Status))
	}
	r.Remarks = remarks
	r.Logs = r.Logs.Append("remarks_updated", actor, "")
	r.Touch()
	return nil
}

// Cancel abandons the refund. Not allowed once completed or while live refund payments exist.
func (r *Refund) Cancel(activePayments int64, actor uuid.UUID) error {
	if err := r.ensureActive(); err != nil {
		return err
	}
	if activePayments > 0 {
		return shared.InvalidState("refund", "without refund payments", string(r.Status))
	}
	now := time.Now()
	r.Status = PaymentStatusCancelled
	r.CanceledBy = &actor
	r.CanceledAt = &now
	r.Logs = r.Logs.Append("cancelled", actor, "")
	r.Touch()
	return nil
}
