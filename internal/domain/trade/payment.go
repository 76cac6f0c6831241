package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is money received against a cash sale
type Payment struct {
	shared.BaseAggregateRoot
	SaleID       uuid.UUID
	ClientID     uuid.UUID
	CurrencyID   uuid.UUID
	CurrencyCode string
	Amount       decimal.Decimal
	PaymentType  PaymentType
	Status       PaymentStatus
	Remarks      string
	CreatedBy    uuid.UUID
	CanceledBy   *uuid.UUID
	CanceledAt   *time.Time
	Logs         shared.ActivityLog
}

// PaymentInput is a requested payment
type PaymentInput struct {
	ClientID    uuid.UUID
	CurrencyID  uuid.UUID
	Amount      decimal.Decimal
	PaymentType PaymentType
	Remarks     string
}

// NewPayment validates a payment against the sale given what is already paid.
// The returned flag is true when the payment settles the sale; the payment is
// then completed, otherwise partial.
func NewPayment(sale *Sale, in PaymentInput, paid decimal.Decimal, actor uuid.UUID) (*Payment, bool, error) {
	if !in.PaymentType.IsValid() {
		return nil, false, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unknown payment type")
	}
	closes, err := sale.AcceptPayment(in.ClientID, in.CurrencyID, in.Amount, paid)
	if err != nil {
		return nil, false, err
	}

	status := PaymentStatusPartial
	if closes {
		status = PaymentStatusCompleted
	}
	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            sale.ID,
		ClientID:          sale.ClientID,
		CurrencyID:        sale.CurrencyID,
		CurrencyCode:      sale.CurrencyCode,
		Amount:            shared.Round2(in.Amount),
		PaymentType:       in.PaymentType,
		Status:            status,
		Remarks:           in.Remarks,
		CreatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, string(status)),
	}
	p.AddDomainEvent(NewPaymentRecordedEvent(p, actor))
	return p, closes, nil
}

// IsCancelled reports whether the payment is cancelled
func (p *Payment) IsCancelled() bool {
	return p.Status == PaymentStatusCancelled
}

// Cancel cancels the payment. Stock is never touched by a payment cancellation.
func (p *Payment) Cancel(actor uuid.UUID) error {
	if p.IsCancelled() {
		return shared.AlreadyFinalized("payment", string(p.Status))
	}
	now := time.Now()
	p.Status = PaymentStatusCancelled
	p.CanceledBy = &actor
	p.CanceledAt = &now
	p.Logs = p.Logs.Append("cancelled", actor, "")
	p.Touch()
	p.AddDomainEvent(NewPaymentCancelledEvent(p, actor))
	return nil
}

// EnsureDeletable allows deleting only a cancelled payment
func (p *Payment) EnsureDeletable() error {
	if !p.IsCancelled() {
		return shared.InvalidState("payment", string(PaymentStatusCancelled), string(p.Status))
	}
	return nil
}
