package trade

import (
	"slices"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeReturnExceedsSold is reported when a return asks for more than remains on a sale line
const CodeReturnExceedsSold = "RETURN_EXCEEDS_SOLD"

// ReturnItem is a requested returned quantity
type ReturnItem struct {
	ProductID uuid.UUID
	Quantity  int64
}

// ReturnLine is a returned quantity with the sale line snapshot it was priced from
type ReturnLine struct {
	ProductID    uuid.UUID
	ProductCode  string
	ProductName  string
	Quantity     int64
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
	Amount       decimal.Decimal
}

// ReturnEffects are the side effects a return had outside the sale, kept so
// they can be reversed exactly
type ReturnEffects struct {
	RefundEligible decimal.Decimal
	CreditReleased decimal.Decimal
	StockRestocked bool
}

// SaleReturn is goods brought back against a sale.
// Status follows the progress of the refund it feeds.
type SaleReturn struct {
	shared.BaseAggregateRoot
	ReturnNumber      string
	SaleID            uuid.UUID
	ClientID          uuid.UUID
	CurrencyID        uuid.UUID
	CurrencyCode      string
	Lines             []ReturnLine
	TotalRefundAmount decimal.Decimal
	ReturnEffects
	Status     PaymentStatus
	RefundID   *uuid.UUID
	Remarks    string
	CreatedBy  uuid.UUID
	UpdatedBy  uuid.UUID
	CanceledBy *uuid.UUID
	CanceledAt *time.Time
	Logs       shared.ActivityLog
}

// NewSaleReturn creates a pending return from lines already taken off the sale
func NewSaleReturn(number string, sale *Sale, lines []ReturnLine, remarks string, actor uuid.UUID) (*SaleReturn, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A return needs at least one line")
	}
	r := &SaleReturn{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      number,
		SaleID:            sale.ID,
		ClientID:          sale.ClientID,
		CurrencyID:        sale.CurrencyID,
		CurrencyCode:      sale.CurrencyCode,
		Lines:             slices.Clone(lines),
		TotalRefundAmount: sumReturnLines(lines),
		Status:            PaymentStatusPending,
		Remarks:           remarks,
		CreatedBy:         actor,
		UpdatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, ""),
	}
	r.AddDomainEvent(NewReturnCreatedEvent(r, actor))
	return r, nil
}

// IsPending reports whether the return may still be edited or cancelled
func (r *SaleReturn) IsPending() bool {
	return r.Status == PaymentStatusPending
}

// EnsurePending fails unless the return is pending
func (r *SaleReturn) EnsurePending() error {
	if !r.IsPending() {
		return shared.InvalidState("return", string(PaymentStatusPending), string(r.Status))
	}
	return nil
}

// Quantities sums returned quantities per product
func (r *SaleReturn) Quantities() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(r.Lines))
	for _, l := range r.Lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}

// RecordEffects stores the side effects applied for the current lines
func (r *SaleReturn) RecordEffects(effects ReturnEffects) {
	r.ReturnEffects = effects
}

// LinkRefund records the refund the eligible amount was added to
func (r *SaleReturn) LinkRefund(refundID uuid.UUID) {
	r.RefundID = &refundID
}

// Replace swaps the lines of a pending return
func (r *SaleReturn) Replace(lines []ReturnLine, remarks *string, actor uuid.UUID) error {
	if err := r.EnsurePending(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "A return needs at least one line")
	}
	r.Lines = slices.Clone(lines)
	r.TotalRefundAmount = sumReturnLines(lines)
	if remarks != nil {
		r.Remarks = *remarks
	}
	r.UpdatedBy = actor
	r.Logs = r.Logs.Append("edited", actor, "")
	r.Touch()
	return nil
}

// Cancel cancels a pending return. The caller reverses the recorded effects.
func (r *SaleReturn) Cancel(actor uuid.UUID) error {
	if err := r.EnsurePending(); err != nil {
		return err
	}
	now := time.Now()
	r.Status = PaymentStatusCancelled
	r.CanceledBy = &actor
	r.CanceledAt = &now
	r.UpdatedBy = actor
	r.Logs = r.Logs.Append("cancelled", actor, "")
	r.Touch()
	r.AddDomainEvent(NewReturnCancelledEvent(r, actor))
	return nil
}

// FollowRefund mirrors the progress of the linked refund
func (r *SaleReturn) FollowRefund(status PaymentStatus, actor uuid.UUID) bool {
	if r.Status == PaymentStatusCancelled || status == PaymentStatusCancelled || r.Status == status {
		return false
	}
	r.Status = status
	r.Logs = r.Logs.Append("refund_"+string(status), actor, "")
	r.Touch()
	return true
}

// RefundEligible is min(returnTotal, paid − alreadyGranted), floored at zero.
// alreadyGranted is what other live returns of the sale were granted.
func RefundEligible(returnTotal, paid, alreadyGranted decimal.Decimal) decimal.Decimal {
	available := shared.FloorZero(shared.Round2(paid).Sub(shared.Round2(alreadyGranted)))
	return shared.FloorZero(shared.MinMoney(returnTotal, available))
}

func sumReturnLines(lines []ReturnLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return shared.Round2(total)
}
