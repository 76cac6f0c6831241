package partner

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus is the status of a balance or credit ledger record
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusCancelled EntryStatus = "cancelled"
)

// BalanceKind classifies a balance movement
type BalanceKind string

const (
	BalanceKindDeposit     BalanceKind = "deposit"
	BalanceKindWithdrawal  BalanceKind = "withdrawal"
	BalanceKindSalePayment BalanceKind = "sale_payment"
)

// CreditKind classifies a credit movement
type CreditKind string

const (
	CreditKindCharge    CreditKind = "charge"
	CreditKindRepayment CreditKind = "repayment"
	CreditKindRelease   CreditKind = "release"
)

// Source types of ledger records created by trade documents
const (
	SourceManual  = "manual"
	SourceSale    = "sale"
	SourcePayment = "payment"
	SourceReturn  = "sale_return"
)

// LedgerEntry holds what BalancePayment and CreditPayment have in common
type LedgerEntry struct {
	shared.BaseAggregateRoot
	ClientID     uuid.UUID
	CurrencyID   uuid.UUID
	CurrencyCode string
	Amount       decimal.Decimal
	Status       EntryStatus
	SourceType   string
	SourceID     *uuid.UUID
	Remarks      string
	CreatedBy    uuid.UUID
	CanceledBy   *uuid.UUID
	CanceledAt   *time.Time
	Logs         shared.ActivityLog
}

func newLedgerEntry(clientID, currencyID uuid.UUID, code string, amount decimal.Decimal, sourceType string, sourceID *uuid.UUID, remarks string, actor uuid.UUID) (LedgerEntry, error) {
	if !shared.MoneyPositive(amount) {
		return LedgerEntry{}, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if sourceType == "" {
		sourceType = SourceManual
	}
	return LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		CurrencyID:        currencyID,
		CurrencyCode:      code,
		Amount:            shared.Round2(amount),
		Status:            EntryStatusCompleted,
		SourceType:        sourceType,
		SourceID:          sourceID,
		Remarks:           remarks,
		CreatedBy:         actor,
		Logs:              shared.ActivityLog{}.Append("created", actor, remarks),
	}, nil
}

// IsManual reports whether the record was entered directly rather than produced by a trade document
func (e *LedgerEntry) IsManual() bool {
	return e.SourceType == SourceManual
}

func (e *LedgerEntry) cancel(entity string, actor uuid.UUID) error {
	if e.Status == EntryStatusCancelled {
		return shared.AlreadyFinalized(entity, string(e.Status))
	}
	now := time.Now()
	e.Status = EntryStatusCancelled
	e.CanceledBy = &actor
	e.CanceledAt = &now
	e.Logs = e.Logs.Append("cancelled", actor, "")
	e.Touch()
	return nil
}

func (e *LedgerEntry) ensureDeletable(entity string) error {
	if e.Status != EntryStatusCancelled {
		return shared.InvalidState(entity, string(EntryStatusCancelled), string(e.Status))
	}
	return nil
}

// BalancePayment records one movement of a client balance
type BalancePayment struct {
	LedgerEntry
	Kind BalanceKind
}

// NewBalancePayment creates a balance movement record
func NewBalancePayment(b *ClientBalance, kind BalanceKind, amount decimal.Decimal, sourceType string, sourceID *uuid.UUID, remarks string, actor uuid.UUID) (*BalancePayment, error) {
	switch kind {
	case BalanceKindDeposit, BalanceKindWithdrawal, BalanceKindSalePayment:
	default:
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown balance movement kind")
	}
	entry, err := newLedgerEntry(b.ClientID, b.CurrencyID, b.CurrencyCode, amount, sourceType, sourceID, remarks, actor)
	if err != nil {
		return nil, err
	}
	return &BalancePayment{LedgerEntry: entry, Kind: kind}, nil
}

// Apply moves the balance in the direction of the record
func (p *BalancePayment) Apply(b *ClientBalance) error {
	if p.Kind == BalanceKindDeposit {
		return b.Credit(p.Amount)
	}
	return b.Debit(p.Amount)
}

// Cancel marks the record cancelled and reverses its effect on the balance
func (p *BalancePayment) Cancel(b *ClientBalance, actor uuid.UUID) error {
	if p.Status == EntryStatusCancelled {
		return shared.AlreadyFinalized("balance payment", string(p.Status))
	}
	var err error
	if p.Kind == BalanceKindDeposit {
		err = b.Debit(p.Amount)
	} else {
		err = b.Credit(p.Amount)
	}
	if err != nil {
		return err
	}
	return p.cancel("balance payment", actor)
}

// EnsureDeletable allows deletion only once cancelled
func (p *BalancePayment) EnsureDeletable() error {
	return p.ensureDeletable("balance payment")
}

// CreditPayment records one movement of a credit line
type CreditPayment struct {
	LedgerEntry
	Kind CreditKind
}

// NewCreditPayment creates a credit movement record
func NewCreditPayment(l *CreditLine, kind CreditKind, amount decimal.Decimal, sourceType string, sourceID *uuid.UUID, remarks string, actor uuid.UUID) (*CreditPayment, error) {
	switch kind {
	case CreditKindCharge, CreditKindRepayment, CreditKindRelease:
	default:
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown credit movement kind")
	}
	entry, err := newLedgerEntry(l.ClientID, l.CurrencyID, l.CurrencyCode, amount, sourceType, sourceID, remarks, actor)
	if err != nil {
		return nil, err
	}
	return &CreditPayment{LedgerEntry: entry, Kind: kind}, nil
}

// Cancel marks the record cancelled and reverses its effect on the credit line.
// Reversing a repayment uses credit again and is subject to the limit.
func (p *CreditPayment) Cancel(l *CreditLine, actor uuid.UUID) error {
	if p.Status == EntryStatusCancelled {
		return shared.AlreadyFinalized("credit payment", string(p.Status))
	}
	switch p.Kind {
	case CreditKindCharge:
		l.Release(p.Amount)
	default:
		if err := l.Charge(p.Amount); err != nil {
			return err
		}
	}
	return p.cancel("credit payment", actor)
}

// EnsureDeletable allows deletion only once cancelled
func (p *CreditPayment) EnsureDeletable() error {
	return p.ensureDeletable("credit payment")
}
