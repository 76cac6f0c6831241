package partner

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientBalance is the free-standing money a client holds in one currency.
// One row per (client, currency) so it can be row-locked on its own.
type ClientBalance struct {
	shared.BaseAggregateRoot
	ClientID     uuid.UUID
	CurrencyID   uuid.UUID
	CurrencyCode string
	Amount       decimal.Decimal
}

// NewClientBalance opens an empty balance
func NewClientBalance(clientID, currencyID uuid.UUID, currencyCode string) *ClientBalance {
	return &ClientBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		CurrencyID:        currencyID,
		CurrencyCode:      currencyCode,
		Amount:            decimal.Zero,
	}
}

// Credit adds money to the balance
func (b *ClientBalance) Credit(amount decimal.Decimal) error {
	if !shared.MoneyPositive(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	b.Amount = shared.Round2(b.Amount.Add(amount))
	b.Touch()
	return nil
}

// Debit draws money from the balance, which never goes negative
func (b *ClientBalance) Debit(amount decimal.Decimal) error {
	if !shared.MoneyPositive(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if shared.MoneyGreater(amount, b.Amount) {
		return shared.ErrInsufficientBalance.
			WithDetail("currency", b.CurrencyCode).
			WithDetail("available", b.Amount.StringFixed(2)).
			WithDetail("required", amount.StringFixed(2))
	}
	b.Amount = shared.Round2(b.Amount.Sub(amount))
	b.Touch()
	return nil
}

// CreditLine tracks credit-sale exposure for one (client, currency) pair.
// CurrentCredit is the used part and never exceeds CreditLimit after a charge.
type CreditLine struct {
	shared.BaseAggregateRoot
	ClientID      uuid.UUID
	CurrencyID    uuid.UUID
	CurrencyCode  string
	CreditLimit   decimal.Decimal
	CurrentCredit decimal.Decimal
}

// NewCreditLine opens a credit line
func NewCreditLine(clientID, currencyID uuid.UUID, currencyCode string, limit decimal.Decimal) (*CreditLine, error) {
	if limit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	return &CreditLine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		CurrencyID:        currencyID,
		CurrencyCode:      currencyCode,
		CreditLimit:       shared.Round2(limit),
		CurrentCredit:     decimal.Zero,
	}, nil
}

// Available returns the unused part of the limit
func (l *CreditLine) Available() decimal.Decimal {
	return shared.FloorZero(shared.Round2(l.CreditLimit.Sub(l.CurrentCredit)))
}

// SetLimit changes the limit. It may not go below the credit already in use.
func (l *CreditLine) SetLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	if shared.MoneyLess(limit, l.CurrentCredit) {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be below the credit in use").
			WithDetail("current_credit", l.CurrentCredit.StringFixed(2))
	}
	l.CreditLimit = shared.Round2(limit)
	l.Touch()
	return nil
}

// Charge uses credit. Fails with CreditLimitExceeded when the limit would overflow.
func (l *CreditLine) Charge(amount decimal.Decimal) error {
	if !shared.MoneyPositive(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	used := shared.Round2(l.CurrentCredit.Add(amount))
	if shared.MoneyGreater(used, l.CreditLimit) {
		return shared.CreditLimitExceeded(l.CurrencyCode, l.CreditLimit, used)
	}
	l.CurrentCredit = used
	l.Touch()
	return nil
}

// Repay reduces used credit by a client repayment; it cannot exceed what is in use
func (l *CreditLine) Repay(amount decimal.Decimal) error {
	if !shared.MoneyPositive(amount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if shared.MoneyGreater(amount, l.CurrentCredit) {
		return shared.InsufficientFunds(amount, l.CurrentCredit)
	}
	l.CurrentCredit = shared.Round2(l.CurrentCredit.Sub(amount))
	l.Touch()
	return nil
}

// Release gives credit back after a return or cancellation and returns the
// amount actually released, which is less than requested when the client
// already repaid part of it.
func (l *CreditLine) Release(amount decimal.Decimal) decimal.Decimal {
	released := shared.MinMoney(shared.FloorZero(amount), l.CurrentCredit)
	if !released.IsPositive() {
		return decimal.Zero
	}
	l.CurrentCredit = shared.Round2(l.CurrentCredit.Sub(released))
	l.Touch()
	return released
}

// Account is the resolved view of a client with all its currency rows
type Account struct {
	Client   *Client
	Balances []ClientBalance
	Credits  []CreditLine
}
