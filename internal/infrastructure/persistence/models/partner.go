package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client aggregate root
type ClientModel struct {
	AggregateModel
	Code               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string          `gorm:"type:varchar(200);not null"`
	Email              string          `gorm:"type:varchar(200)"`
	Phone              string          `gorm:"type:varchar(50)"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		Code:               m.Code,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		DiscountPercentage: m.DiscountPercentage,
	}
}

// FromDomain populates the persistence model from a domain Client
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.DiscountPercentage = c.DiscountPercentage
}

// ClientModelFromDomain creates a new persistence model from a domain Client
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// ClientBalanceModel is one (client, currency) balance row
type ClientBalanceModel struct {
	AggregateModel
	ClientID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_client_balances_client_currency,priority:1"`
	CurrencyID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_client_balances_client_currency,priority:2"`
	CurrencyCode string          `gorm:"type:varchar(3);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ClientBalanceModel) TableName() string {
	return "client_balances"
}

// ToDomain converts the persistence model to a domain ClientBalance
func (m *ClientBalanceModel) ToDomain() *partner.ClientBalance {
	return &partner.ClientBalance{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ClientID:          m.ClientID,
		CurrencyID:        m.CurrencyID,
		CurrencyCode:      m.CurrencyCode,
		Amount:            m.Amount,
	}
}

// ClientBalanceModelFromDomain creates a new persistence model from a domain ClientBalance
func ClientBalanceModelFromDomain(b *partner.ClientBalance) *ClientBalanceModel {
	m := &ClientBalanceModel{
		ClientID:     b.ClientID,
		CurrencyID:   b.CurrencyID,
		CurrencyCode: b.CurrencyCode,
		Amount:       b.Amount,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// CreditLineModel is one (client, currency) credit row
type CreditLineModel struct {
	AggregateModel
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_credit_lines_client_currency,priority:1"`
	CurrencyID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_credit_lines_client_currency,priority:2"`
	CurrencyCode  string          `gorm:"type:varchar(3);not null"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentCredit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CreditLineModel) TableName() string {
	return "credit_lines"
}

// ToDomain converts the persistence model to a domain CreditLine
func (m *CreditLineModel) ToDomain() *partner.CreditLine {
	return &partner.CreditLine{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ClientID:          m.ClientID,
		CurrencyID:        m.CurrencyID,
		CurrencyCode:      m.CurrencyCode,
		CreditLimit:       m.CreditLimit,
		CurrentCredit:     m.CurrentCredit,
	}
}

// CreditLineModelFromDomain creates a new persistence model from a domain CreditLine
func CreditLineModelFromDomain(l *partner.CreditLine) *CreditLineModel {
	m := &CreditLineModel{
		ClientID:      l.ClientID,
		CurrencyID:    l.CurrencyID,
		CurrencyCode:  l.CurrencyCode,
		CreditLimit:   l.CreditLimit,
		CurrentCredit: l.CurrentCredit,
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	return m
}

// LedgerEntryModel holds the columns shared by balance and credit records
type LedgerEntryModel struct {
	AggregateModel
	ClientID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	CurrencyID   uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyCode string             `gorm:"type:varchar(3);not null"`
	Amount       decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Status       string             `gorm:"type:varchar(20);not null"`
	SourceType   string             `gorm:"type:varchar(30);not null;default:'manual'"`
	SourceID     *uuid.UUID         `gorm:"type:uuid;index"`
	Remarks      string             `gorm:"type:text"`
	CreatedBy    uuid.UUID          `gorm:"type:uuid;not null"`
	CanceledBy   *uuid.UUID         `gorm:"type:uuid"`
	CanceledAt   *time.Time
	Logs         shared.ActivityLog `gorm:"type:text;not null"`
}

func (m *LedgerEntryModel) toDomain() partner.LedgerEntry {
	return partner.LedgerEntry{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ClientID:          m.ClientID,
		CurrencyID:        m.CurrencyID,
		CurrencyCode:      m.CurrencyCode,
		Amount:            m.Amount,
		Status:            partner.EntryStatus(m.Status),
		SourceType:        m.SourceType,
		SourceID:          m.SourceID,
		Remarks:           m.Remarks,
		CreatedBy:         m.CreatedBy,
		CanceledBy:        m.CanceledBy,
		CanceledAt:        m.CanceledAt,
		Logs:              m.Logs,
	}
}

func (m *LedgerEntryModel) fromDomain(e *partner.LedgerEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.ClientID = e.ClientID
	m.CurrencyID = e.CurrencyID
	m.CurrencyCode = e.CurrencyCode
	m.Amount = e.Amount
	m.Status = string(e.Status)
	m.SourceType = e.SourceType
	m.SourceID = e.SourceID
	m.Remarks = e.Remarks
	m.CreatedBy = e.CreatedBy
	m.CanceledBy = e.CanceledBy
	m.CanceledAt = e.CanceledAt
	m.Logs = e.Logs
}

// BalancePaymentModel is one balance movement record
type BalancePaymentModel struct {
	LedgerEntryModel
	Kind string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (BalancePaymentModel) TableName() string {
	return "balance_payments"
}

// ToDomain converts the persistence model to a domain BalancePayment
func (m *BalancePaymentModel) ToDomain() *partner.BalancePayment {
	return &partner.BalancePayment{
		LedgerEntry: m.LedgerEntryModel.toDomain(),
		Kind:        partner.BalanceKind(m.Kind),
	}
}

// BalancePaymentModelFromDomain creates a new persistence model from a domain BalancePayment
func BalancePaymentModelFromDomain(p *partner.BalancePayment) *BalancePaymentModel {
	m := &BalancePaymentModel{Kind: string(p.Kind)}
	m.fromDomain(&p.LedgerEntry)
	return m
}

// CreditPaymentModel is one credit movement record
type CreditPaymentModel struct {
	LedgerEntryModel
	Kind string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CreditPaymentModel) TableName() string {
	return "credit_payments"
}

// ToDomain converts the persistence model to a domain CreditPayment
func (m *CreditPaymentModel) ToDomain() *partner.CreditPayment {
	return &partner.CreditPayment{
		LedgerEntry: m.LedgerEntryModel.toDomain(),
		Kind:        partner.CreditKind(m.Kind),
	}
}

// CreditPaymentModelFromDomain creates a new persistence model from a domain CreditPayment
func CreditPaymentModelFromDomain(p *partner.CreditPayment) *CreditPaymentModel {
	m := &CreditPaymentModel{Kind: string(p.Kind)}
	m.fromDomain(&p.LedgerEntry)
	return m
}
