// Package trade holds the sale, payment, return and refund aggregates and
// the ledger arithmetic that keeps them consistent.
package trade

import (
	"fmt"
	"slices"
	"time"

	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the aggregate root of a sale to a client.
// TotalAmount always equals the sum of line totals.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber         string
	ClientID           uuid.UUID
	CurrencyID         uuid.UUID
	CurrencyCode       string
	ExchangeRate       decimal.Decimal
	DiscountPercentage decimal.Decimal
	Lines              []SaleLine
	TotalAmount        decimal.Decimal
	TotalTax           decimal.Decimal
	TotalDiscount      decimal.Decimal
	Status             SaleStatus
	CreditSale         bool
	// StockDeducted is true while the sale holds stock for its lines
	StockDeducted bool
	Remarks       string
	CreatedBy     uuid.UUID
	UpdatedBy     uuid.UUID
	CompletedBy   *uuid.UUID
	CompletedAt   *time.Time
	CanceledBy    *uuid.UUID
	CanceledAt    *time.Time
	Logs          shared.ActivityLog
}

// NewSaleParams carries the resolved inputs of a new sale
type NewSaleParams struct {
	SaleNumber         string
	ClientID           uuid.UUID
	Rate               currency.RateSnapshot
	Lines              []SaleLine
	CreditSale         bool
	DiscountPercentage decimal.Decimal
	Remarks            string
}

// NewSale creates a sale. A credit sale is settled against the credit line
// and therefore completed immediately; a cash sale starts pending.
func NewSale(p NewSaleParams, actor uuid.UUID) (*Sale, error) {
	if p.ClientID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Client is required")
	}
	if p.Rate.CurrencyID == uuid.Nil || !p.Rate.Rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "A positive exchange rate snapshot is required")
	}
	if len(p.Lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A sale needs at least one line")
	}

	s := &Sale{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		SaleNumber:         p.SaleNumber,
		ClientID:           p.ClientID,
		CurrencyID:         p.Rate.CurrencyID,
		CurrencyCode:       p.Rate.Code,
		ExchangeRate:       p.Rate.Rate,
		DiscountPercentage: p.DiscountPercentage,
		Lines:              slices.Clone(p.Lines),
		Status:             SaleStatusPending,
		CreditSale:         p.CreditSale,
		Remarks:            p.Remarks,
		CreatedBy:          actor,
		UpdatedBy:          actor,
		Logs:               shared.ActivityLog{}.Append("created", actor, ""),
	}
	s.recalculateTotals()
	s.AddDomainEvent(NewSaleCreatedEvent(s, actor))

	if s.CreditSale {
		s.markCompleted(actor)
	}
	return s, nil
}

// IsPending reports whether the sale is pending
func (s *Sale) IsPending() bool { return s.Status == SaleStatusPending }

// IsCompleted reports whether the sale is completed
func (s *Sale) IsCompleted() bool { return s.Status == SaleStatusCompleted }

// IsCancelled reports whether the sale is cancelled
func (s *Sale) IsCancelled() bool { return s.Status == SaleStatusCancelled }

// Remaining returns round2(total) − round2(paid)
func (s *Sale) Remaining(paid decimal.Decimal) decimal.Decimal {
	return shared.Round2(s.TotalAmount).Sub(shared.Round2(paid))
}

// Line returns the line of a product
func (s *Sale) Line(productID uuid.UUID) (SaleLine, bool) {
	if i := lineIndex(s.Lines, productID); i >= 0 {
		return s.Lines[i], true
	}
	return SaleLine{}, false
}

// SaleEdit carries the changes of an edit. Nil fields stay unchanged.
type SaleEdit struct {
	ClientID *uuid.UUID
	Lines    []SaleLine
	Remarks  *string
}

// Edit applies an edit to a pending sale and returns the lines as they were
// before, so stock can be reconciled against them. The new total may not drop
// below what has already been paid.
func (s *Sale) Edit(edit SaleEdit, paid decimal.Decimal, actor uuid.UUID) ([]SaleLine, error) {
	if !s.IsPending() {
		return nil, shared.InvalidState("sale", string(SaleStatusPending), string(s.Status))
	}
	if edit.ClientID != nil && *edit.ClientID != s.ClientID && paid.IsPositive() {
		return nil, shared.InvalidState("sale", "unpaid", "partially paid").
			WithDetail("reason", "client cannot change once payments exist")
	}

	previous := slices.Clone(s.Lines)
	if edit.Lines != nil {
		if len(edit.Lines) == 0 {
			return nil, shared.NewDomainError("NO_ITEMS", "A sale needs at least one line")
		}
		total := decimal.Zero
		for _, l := range edit.Lines {
			total = total.Add(l.Total)
		}
		if shared.MoneyLess(total, paid) {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Sale total cannot drop below the amount already paid").
				WithDetail("paid", shared.Round2(paid).StringFixed(2)).
				WithDetail("total", shared.Round2(total).StringFixed(2))
		}
		s.Lines = slices.Clone(edit.Lines)
	}
	if edit.ClientID != nil {
		s.ClientID = *edit.ClientID
	}
	if edit.Remarks != nil {
		s.Remarks = *edit.Remarks
	}

	s.recalculateTotals()
	s.UpdatedBy = actor
	s.Logs = s.Logs.Append("edited", actor, "")
	s.Touch()
	return previous, nil
}

// AcceptPayment validates a payment against the sale and reports whether it
// settles the sale exactly
func (s *Sale) AcceptPayment(clientID, currencyID uuid.UUID, amount, paid decimal.Decimal) (bool, error) {
	if s.IsCancelled() {
		return false, shared.AlreadyFinalized("sale", string(s.Status))
	}
	if s.CreditSale {
		return false, shared.InvalidState("sale", "cash sale", "credit sale").
			WithDetail("reason", "credit sales are settled against the credit line")
	}
	if currencyID != s.CurrencyID {
		return false, shared.CurrencyMismatch(s.CurrencyID.String(), currencyID.String()).
			WithDetail("sale_currency", s.CurrencyCode)
	}
	if clientID != s.ClientID {
		return false, shared.NewDomainError("CLIENT_MISMATCH", "Payment client does not match the sale client")
	}
	if !shared.MoneyPositive(amount) {
		return false, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	remaining := s.Remaining(paid)
	if shared.MoneyGreater(amount, remaining) {
		return false, shared.InsufficientFunds(amount, shared.FloorZero(remaining))
	}
	return shared.MoneyEqual(amount, remaining), nil
}

// Complete marks a pending sale completed
func (s *Sale) Complete(actor uuid.UUID) error {
	if !s.IsPending() {
		return shared.InvalidState("sale", string(SaleStatusPending), string(s.Status))
	}
	s.markCompleted(actor)
	s.Touch()
	return nil
}

func (s *Sale) markCompleted(actor uuid.UUID) {
	now := time.Now()
	s.Status = SaleStatusCompleted
	s.CompletedBy = &actor
	s.CompletedAt = &now
	s.UpdatedBy = actor
	s.Logs = s.Logs.Append("completed", actor, "")
	s.AddDomainEvent(NewSaleCompletedEvent(s, actor))
}

// RecomputeStatus aligns a cash sale's status with what has been paid:
// completed exactly when payments cover the total. Returns true when the
// sale has just become completed.
func (s *Sale) RecomputeStatus(paid decimal.Decimal, actor uuid.UUID) bool {
	if s.CreditSale || s.IsCancelled() {
		return false
	}
	covered := shared.MoneyPositive(paid) && !shared.MoneyLess(paid, s.TotalAmount)
	switch {
	case covered && s.IsPending():
		s.markCompleted(actor)
		s.Touch()
		return true
	case !covered && s.IsCompleted():
		s.Status = SaleStatusPending
		s.CompletedBy = nil
		s.CompletedAt = nil
		s.UpdatedBy = actor
		s.Logs = s.Logs.Append("reopened", actor, "")
		s.Touch()
	}
	return false
}

// MarkStockDeducted records that stock for every line has been taken
func (s *Sale) MarkStockDeducted() {
	s.StockDeducted = true
}

// Cancel cancels the sale. A cash sale with any live payment, or a sale with
// a pending return, cannot be cancelled. The caller restores stock first when
// StockDeducted is set.
func (s *Sale) Cancel(activePayments int64, pendingReturns int64, actor uuid.UUID) error {
	if s.IsCancelled() {
		return shared.AlreadyFinalized("sale", string(s.Status))
	}
	if !s.CreditSale && activePayments > 0 {
		return shared.InvalidState("sale", "unpaid", "paid").
			WithDetail("reason", "reverse payments through returns and refunds instead")
	}
	if !s.CreditSale && s.IsCompleted() {
		return shared.InvalidState("sale", string(SaleStatusPending), string(s.Status))
	}
	if pendingReturns > 0 {
		return shared.InvalidState("sale", "without pending returns", fmt.Sprintf("%d pending returns", pendingReturns))
	}

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.StockDeducted = false
	s.CanceledBy = &actor
	s.CanceledAt = &now
	s.UpdatedBy = actor
	s.Logs = s.Logs.Append("cancelled", actor, "")
	s.Touch()
	s.AddDomainEvent(NewSaleCancelledEvent(s, actor))
	return nil
}

// EnsureDeletable allows deleting only a cancelled sale with no dependents
func (s *Sale) EnsureDeletable(dependents int64) error {
	if !s.IsCancelled() {
		return shared.InvalidState("sale", string(SaleStatusCancelled), string(s.Status))
	}
	if dependents > 0 {
		return shared.InvalidState("sale", "without payments, returns, refunds or deliveries", fmt.Sprintf("%d dependents", dependents))
	}
	return nil
}

// EnsureReturnable checks that a client may return goods of this sale
func (s *Sale) EnsureReturnable(clientID uuid.UUID) error {
	if s.IsCancelled() {
		return shared.AlreadyFinalized("sale", string(s.Status))
	}
	if clientID != s.ClientID {
		return shared.NewDomainError("CLIENT_MISMATCH", "Return client does not match the sale client")
	}
	return nil
}

// ApplyReturn takes returned quantities off the sale lines. Each returned
// amount is the drop in the line total when the line is repriced at the
// reduced quantity. Lines reaching zero are removed. Nothing changes on error.
func (s *Sale) ApplyReturn(items []ReturnItem, actor uuid.UUID) ([]ReturnLine, error) {
	if s.IsCancelled() {
		return nil, shared.AlreadyFinalized("sale", string(s.Status))
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A return needs at least one line")
	}

	lines := slices.Clone(s.Lines)
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := make([]ReturnLine, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.ProductID]; dup {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Product %s appears more than once", item.ProductID))
		}
		seen[item.ProductID] = struct{}{}

		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Returned quantity must be positive")
		}
		i := lineIndex(lines, item.ProductID)
		if i < 0 {
			return nil, shared.NewDomainError(CodeReturnExceedsSold, fmt.Sprintf("Product %s is not on the sale", item.ProductID)).
				WithDetail("product_id", item.ProductID.String())
		}
		line := lines[i]
		if item.Quantity > line.Quantity {
			return nil, shared.NewDomainError(CodeReturnExceedsSold,
				fmt.Sprintf("Cannot return %d of %s, only %d remain", item.Quantity, line.ProductCode, line.Quantity)).
				WithDetail("product", line.ProductCode).
				WithDetail("requested", item.Quantity).
				WithDetail("remaining", line.Quantity)
		}

		reduced := line.Reprice(line.Quantity - item.Quantity)
		out = append(out, ReturnLine{
			ProductID:    line.ProductID,
			ProductCode:  line.ProductCode,
			ProductName:  line.ProductName,
			Quantity:     item.Quantity,
			UnitPrice:    line.UnitPrice,
			TaxRate:      line.TaxRate,
			DiscountRate: line.DiscountRate,
			Amount:       shared.Round2(line.Total.Sub(reduced.Total)),
		})
		if reduced.Quantity == 0 {
			lines = slices.Delete(lines, i, i+1)
		} else {
			lines[i] = reduced
		}
	}

	s.Lines = lines
	s.recalculateTotals()
	s.UpdatedBy = actor
	s.Logs = s.Logs.Append("return_applied", actor, "")
	s.Touch()
	return out, nil
}

// RestoreReturn puts returned quantities back onto the sale, merging into an
// existing line or reinserting it from the return's snapshot
func (s *Sale) RestoreReturn(returned []ReturnLine, actor uuid.UUID) {
	for _, r := range returned {
		if i := lineIndex(s.Lines, r.ProductID); i >= 0 {
			s.Lines[i] = s.Lines[i].Reprice(s.Lines[i].Quantity + r.Quantity)
			continue
		}
		line := SaleLine{
			ProductID:    r.ProductID,
			ProductCode:  r.ProductCode,
			ProductName:  r.ProductName,
			UnitPrice:    r.UnitPrice,
			TaxRate:      r.TaxRate,
			DiscountRate: r.DiscountRate,
		}
		s.Lines = append(s.Lines, line.Reprice(r.Quantity))
	}
	s.recalculateTotals()
	s.UpdatedBy = actor
	s.Logs = s.Logs.Append("return_reverted", actor, "")
	s.Touch()
}

func (s *Sale) recalculateTotals() {
	total, tax, discount := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Total)
		tax = tax.Add(l.TaxAmount)
		discount = discount.Add(l.DiscountAmount)
	}
	s.TotalAmount = shared.Round2(total)
	s.TotalTax = shared.Round2(tax)
	s.TotalDiscount = shared.Round2(discount)
}

func lineIndex(lines []SaleLine, productID uuid.UUID) int {
	return slices.IndexFunc(lines, func(l SaleLine) bool { return l.ProductID == productID })
}
