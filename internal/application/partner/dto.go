package partner

import (
	"time"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Code               string          `json:"code" binding:"required,min=1,max=50"`
	Name               string          `json:"name" binding:"required,min=1,max=200"`
	Email              string          `json:"email" binding:"omitempty,email"`
	Phone              string          `json:"phone" binding:"omitempty,max=50"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// SetCreditLimitRequest represents a request to set a client's credit limit in a currency
type SetCreditLimitRequest struct {
	CurrencyID uuid.UUID       `json:"currency_id" binding:"required"`
	Limit      decimal.Decimal `json:"limit"`
}

// DepositRequest represents money put on a client's balance
type DepositRequest struct {
	CurrencyID uuid.UUID       `json:"currency_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Remarks    string          `json:"remarks" binding:"max=500"`
}

// LedgerPaymentRequest represents a manual balance draw-down or credit repayment
type LedgerPaymentRequest struct {
	ClientID   uuid.UUID       `json:"client_id" binding:"required"`
	CurrencyID uuid.UUID       `json:"currency_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Remarks    string          `json:"remarks" binding:"max=500"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
}

// BalanceResponse represents a client balance in one currency
type BalanceResponse struct {
	CurrencyID   uuid.UUID       `json:"currency_id"`
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
}

// CreditLineResponse represents a client credit line in one currency
type CreditLineResponse struct {
	CurrencyID    uuid.UUID       `json:"currency_id"`
	CurrencyCode  string          `json:"currency_code"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	CurrentCredit decimal.Decimal `json:"current_credit"`
	Available     decimal.Decimal `json:"available"`
}

// AccountResponse represents a client with all balances and credit lines
type AccountResponse struct {
	Client      ClientResponse       `json:"client"`
	Balances    []BalanceResponse    `json:"balances"`
	CreditLines []CreditLineResponse `json:"credit_lines"`
}

// LedgerEntryResponse represents a balance or credit movement record
type LedgerEntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	ClientID     uuid.UUID       `json:"client_id"`
	CurrencyCode string          `json:"currency_code"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	SourceType   string          `json:"source_type"`
	SourceID     *uuid.UUID      `json:"source_id,omitempty"`
	Remarks      string          `json:"remarks,omitempty"`
	CreatedBy    uuid.UUID       `json:"created_by"`
	CanceledBy   *uuid.UUID      `json:"canceled_by,omitempty"`
	CanceledAt   *time.Time      `json:"canceled_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:                 c.ID,
		Code:               c.Code,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		DiscountPercentage: c.DiscountPercentage,
		CreatedAt:          c.CreatedAt,
	}
}

// ToCreditLineResponse converts a domain CreditLine to CreditLineResponse
func ToCreditLineResponse(l *partner.CreditLine) CreditLineResponse {
	return CreditLineResponse{
		CurrencyID:    l.CurrencyID,
		CurrencyCode:  l.CurrencyCode,
		CreditLimit:   l.CreditLimit,
		CurrentCredit: l.CurrentCredit,
		Available:     l.Available(),
	}
}

func toLedgerEntryResponse(e *partner.LedgerEntry, kind string) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID,
		ClientID:     e.ClientID,
		CurrencyCode: e.CurrencyCode,
		Kind:         kind,
		Amount:       e.Amount,
		Status:       string(e.Status),
		SourceType:   e.SourceType,
		SourceID:     e.SourceID,
		Remarks:      e.Remarks,
		CreatedBy:    e.CreatedBy,
		CanceledBy:   e.CanceledBy,
		CanceledAt:   e.CanceledAt,
		CreatedAt:    e.CreatedAt,
	}
}

// ToBalancePaymentResponse converts a balance record
func ToBalancePaymentResponse(p *partner.BalancePayment) LedgerEntryResponse {
	return toLedgerEntryResponse(&p.LedgerEntry, string(p.Kind))
}

// ToCreditPaymentResponse converts a credit record
func ToCreditPaymentResponse(p *partner.CreditPayment) LedgerEntryResponse {
	return toLedgerEntryResponse(&p.LedgerEntry, string(p.Kind))
}
