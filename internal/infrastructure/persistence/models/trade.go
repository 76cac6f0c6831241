package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AggregateModel
	SaleNumber         string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	CurrencyID         uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyCode       string             `gorm:"type:varchar(3);not null"`
	ExchangeRate       decimal.Decimal    `gorm:"type:decimal(18,6);not null"`
	DiscountPercentage decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	Lines              []SaleLineModel    `gorm:"foreignKey:SaleID;references:ID"`
	TotalAmount        decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax           decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDiscount      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status             string             `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreditSale         bool               `gorm:"not null;default:false"`
	StockDeducted      bool               `gorm:"not null;default:false"`
	Remarks            string             `gorm:"type:text"`
	CreatedBy          uuid.UUID          `gorm:"type:uuid;not null"`
	UpdatedBy          uuid.UUID          `gorm:"type:uuid;not null"`
	CompletedBy        *uuid.UUID         `gorm:"type:uuid"`
	CompletedAt        *time.Time
	CanceledBy         *uuid.UUID `gorm:"type:uuid"`
	CanceledAt         *time.Time
	Logs               shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale.
// Lines must be preloaded in position order.
func (m *SaleModel) ToDomain() *trade.Sale {
	s := &trade.Sale{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		SaleNumber:         m.SaleNumber,
		ClientID:           m.ClientID,
		CurrencyID:         m.CurrencyID,
		CurrencyCode:       m.CurrencyCode,
		ExchangeRate:       m.ExchangeRate,
		DiscountPercentage: m.DiscountPercentage,
		Lines:              make([]trade.SaleLine, len(m.Lines)),
		TotalAmount:        m.TotalAmount,
		TotalTax:           m.TotalTax,
		TotalDiscount:      m.TotalDiscount,
		Status:             trade.SaleStatus(m.Status),
		CreditSale:         m.CreditSale,
		StockDeducted:      m.StockDeducted,
		Remarks:            m.Remarks,
		CreatedBy:          m.CreatedBy,
		UpdatedBy:          m.UpdatedBy,
		CompletedBy:        m.CompletedBy,
		CompletedAt:        m.CompletedAt,
		CanceledBy:         m.CanceledBy,
		CanceledAt:         m.CanceledAt,
		Logs:               m.Logs,
	}
	for i := range m.Lines {
		s.Lines[i] = m.Lines[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Sale.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.ClientID = s.ClientID
	m.CurrencyID = s.CurrencyID
	m.CurrencyCode = s.CurrencyCode
	m.ExchangeRate = s.ExchangeRate
	m.DiscountPercentage = s.DiscountPercentage
	m.TotalAmount = s.TotalAmount
	m.TotalTax = s.TotalTax
	m.TotalDiscount = s.TotalDiscount
	m.Status = string(s.Status)
	m.CreditSale = s.CreditSale
	m.StockDeducted = s.StockDeducted
	m.Remarks = s.Remarks
	m.CreatedBy = s.CreatedBy
	m.UpdatedBy = s.UpdatedBy
	m.CompletedBy = s.CompletedBy
	m.CompletedAt = s.CompletedAt
	m.CanceledBy = s.CanceledBy
	m.CanceledAt = s.CanceledAt
	m.Logs = s.Logs
	m.Lines = make([]SaleLineModel, len(s.Lines))
	for i, l := range s.Lines {
		m.Lines[i] = SaleLineModelFromDomain(s.ID, i, l)
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleLineModel is one product line of a sale
type SaleLineModel struct {
	SaleID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position       int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode    string          `gorm:"type:varchar(50);not null"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	Quantity       int64           `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// ToDomain converts the persistence model to a domain SaleLine
func (m *SaleLineModel) ToDomain() trade.SaleLine {
	return trade.SaleLine{
		ProductID:      m.ProductID,
		ProductCode:    m.ProductCode,
		ProductName:    m.ProductName,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TaxRate:        m.TaxRate,
		DiscountRate:   m.DiscountRate,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		Total:          m.Total,
	}
}

// SaleLineModelFromDomain creates a line row at the given position
func SaleLineModelFromDomain(saleID uuid.UUID, position int, l trade.SaleLine) SaleLineModel {
	return SaleLineModel{
		SaleID:         saleID,
		Position:       position,
		ProductID:      l.ProductID,
		ProductCode:    l.ProductCode,
		ProductName:    l.ProductName,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		TaxRate:        l.TaxRate,
		DiscountRate:   l.DiscountRate,
		DiscountAmount: l.DiscountAmount,
		TaxAmount:      l.TaxAmount,
		Total:          l.Total,
	}
}

// PaymentModel is the persistence model for a sale payment
type PaymentModel struct {
	AggregateModel
	SaleID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClientID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	CurrencyID   uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyCode string             `gorm:"type:varchar(3);not null"`
	Amount       decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PaymentType  string             `gorm:"type:varchar(20);not null"`
	Status       string             `gorm:"type:varchar(20);not null"`
	Remarks      string             `gorm:"type:text"`
	CreatedBy    uuid.UUID          `gorm:"type:uuid;not null"`
	CanceledBy   *uuid.UUID         `gorm:"type:uuid"`
	CanceledAt   *time.Time
	Logs         shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *trade.Payment {
	return &trade.Payment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SaleID:            m.SaleID,
		ClientID:          m.ClientID,
		CurrencyID:        m.CurrencyID,
		CurrencyCode:      m.CurrencyCode,
		Amount:            m.Amount,
		PaymentType:       trade.PaymentType(m.PaymentType),
		Status:            trade.PaymentStatus(m.Status),
		Remarks:           m.Remarks,
		CreatedBy:         m.CreatedBy,
		CanceledBy:        m.CanceledBy,
		CanceledAt:        m.CanceledAt,
		Logs:              m.Logs,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *trade.Payment) *PaymentModel {
	m := &PaymentModel{
		SaleID:       p.SaleID,
		ClientID:     p.ClientID,
		CurrencyID:   p.CurrencyID,
		CurrencyCode: p.CurrencyCode,
		Amount:       p.Amount,
		PaymentType:  string(p.PaymentType),
		Status:       string(p.Status),
		Remarks:      p.Remarks,
		CreatedBy:    p.CreatedBy,
		CanceledBy:   p.CanceledBy,
		CanceledAt:   p.CanceledAt,
		Logs:         p.Logs,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// SaleReturnModel is the persistence model for a sale return.
// The effects recorded at creation time are flattened into columns.
type SaleReturnModel struct {
	AggregateModel
	ReturnNumber      string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	SaleID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClientID          uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyID        uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyCode      string             `gorm:"type:varchar(3);not null"`
	Lines             []ReturnLineModel  `gorm:"foreignKey:ReturnID;references:ID"`
	TotalRefundAmount decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	RefundEligible    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	CreditReleased    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	StockRestocked    bool               `gorm:"not null;default:false"`
	Status            string             `gorm:"type:varchar(20);not null"`
	RefundID          *uuid.UUID         `gorm:"type:uuid;index"`
	Remarks           string             `gorm:"type:text"`
	CreatedBy         uuid.UUID          `gorm:"type:uuid;not null"`
	UpdatedBy         uuid.UUID          `gorm:"type:uuid;not null"`
	CanceledBy        *uuid.UUID         `gorm:"type:uuid"`
	CanceledAt        *time.Time
	Logs              shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (SaleReturnModel) TableName() string {
	return "sale_returns"
}

// ToDomain converts the persistence model to a domain SaleReturn
func (m *SaleReturnModel) ToDomain() *trade.SaleReturn {
	r := &trade.SaleReturn{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ReturnNumber:      m.ReturnNumber,
		SaleID:            m.SaleID,
		ClientID:          m.ClientID,
		CurrencyID:        m.CurrencyID,
		CurrencyCode:      m.CurrencyCode,
		Lines:             make([]trade.ReturnLine, len(m.Lines)),
		TotalRefundAmount: m.TotalRefundAmount,
		ReturnEffects: trade.ReturnEffects{
			RefundEligible: m.RefundEligible,
			CreditReleased: m.CreditReleased,
			StockRestocked: m.StockRestocked,
		},
		Status:     trade.PaymentStatus(m.Status),
		RefundID:   m.RefundID,
		Remarks:    m.Remarks,
		CreatedBy:  m.CreatedBy,
		UpdatedBy:  m.UpdatedBy,
		CanceledBy: m.CanceledBy,
		CanceledAt: m.CanceledAt,
		Logs:       m.Logs,
	}
	for i := range m.Lines {
		r.Lines[i] = m.Lines[i].ToDomain()
	}
	return r
}

// FromDomain populates the persistence model from a domain SaleReturn
func (m *SaleReturnModel) FromDomain(r *trade.SaleReturn) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ReturnNumber = r.ReturnNumber
	m.SaleID = r.SaleID
	m.ClientID = r.ClientID
	m.CurrencyID = r.CurrencyID
	m.CurrencyCode = r.CurrencyCode
	m.TotalRefundAmount = r.TotalRefundAmount
	m.RefundEligible = r.RefundEligible
	m.CreditReleased = r.CreditReleased
	m.StockRestocked = r.StockRestocked
	m.Status = string(r.Status)
	m.RefundID = r.RefundID
	m.Remarks = r.Remarks
	m.CreatedBy = r.CreatedBy
	m.UpdatedBy = r.UpdatedBy
	m.CanceledBy = r.CanceledBy
	m.CanceledAt = r.CanceledAt
	m.Logs = r.Logs
	m.Lines = make([]ReturnLineModel, len(r.Lines))
	for i, l := range r.Lines {
		m.Lines[i] = ReturnLineModel{
			ReturnID:     r.ID,
			Position:     i,
			ProductID:    l.ProductID,
			ProductCode:  l.ProductCode,
			ProductName:  l.ProductName,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			DiscountRate: l.DiscountRate,
			Amount:       l.Amount,
		}
	}
}

// SaleReturnModelFromDomain creates a new persistence model from a domain SaleReturn
func SaleReturnModelFromDomain(r *trade.SaleReturn) *SaleReturnModel {
	m := &SaleReturnModel{}
	m.FromDomain(r)
	return m
}

// ReturnLineModel is one product line of a sale return
type ReturnLineModel struct {
	ReturnID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position     int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode  string          `gorm:"type:varchar(50);not null"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReturnLineModel) TableName() string {
	return "return_lines"
}

// ToDomain converts the persistence model to a domain ReturnLine
func (m *ReturnLineModel) ToDomain() trade.ReturnLine {
	return trade.ReturnLine{
		ProductID:    m.ProductID,
		ProductCode:  m.ProductCode,
		ProductName:  m.ProductName,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		TaxRate:      m.TaxRate,
		DiscountRate: m.DiscountRate,
		Amount:       m.Amount,
	}
}

// RefundModel is the persistence model for a refund
type RefundModel struct {
	AggregateModel
	SaleID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClientID          uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyID        uuid.UUID          `gorm:"type:uuid;not null"`
	CurrencyCode      string             `gorm:"type:varchar(3);not null"`
	TotalRefundAmount decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	RefundedAmount    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status            string             `gorm:"type:varchar(20);not null;index"`
	Remarks           string             `gorm:"type:text"`
	CreatedBy         uuid.UUID          `gorm:"type:uuid;not null"`
	CanceledBy        *uuid.UUID         `gorm:"type:uuid"`
	CanceledAt        *time.Time
	Logs              shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (RefundModel) TableName() string {
	return "refunds"
}

// ToDomain converts the persistence model to a domain Refund
func (m *RefundModel) ToDomain() *trade.Refund {
	return &trade.Refund{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SaleID:            m.SaleID,
		ClientID:          m.ClientID,
		CurrencyID:        m.CurrencyID,
		CurrencyCode:      m.CurrencyCode,
		TotalRefundAmount: m.TotalRefundAmount,
		RefundedAmount:    m.RefundedAmount,
		Status:            trade.PaymentStatus(m.Status),
		Remarks:           m.Remarks,
		CreatedBy:         m.CreatedBy,
		CanceledBy:        m.CanceledBy,
		CanceledAt:        m.CanceledAt,
		Logs:              m.Logs,
	}
}

// RefundModelFromDomain creates a new persistence model from a domain Refund
func RefundModelFromDomain(r *trade.Refund) *RefundModel {
	m := &RefundModel{
		SaleID:            r.SaleID,
		ClientID:          r.ClientID,
		CurrencyID:        r.CurrencyID,
		CurrencyCode:      r.CurrencyCode,
		TotalRefundAmount: r.TotalRefundAmount,
		RefundedAmount:    r.RefundedAmount,
		Status:            string(r.Status),
		Remarks:           r.Remarks,
		CreatedBy:         r.CreatedBy,
		CanceledBy:        r.CanceledBy,
		CanceledAt:        r.CanceledAt,
		Logs:              r.Logs,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// RefundPaymentModel is one payout against a refund
type RefundPaymentModel struct {
	AggregateModel
	RefundID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	SaleID     uuid.UUID          `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Status     string             `gorm:"type:varchar(20);not null"`
	Remarks    string             `gorm:"type:text"`
	CreatedBy  uuid.UUID          `gorm:"type:uuid;not null"`
	CanceledBy *uuid.UUID         `gorm:"type:uuid"`
	CanceledAt *time.Time
	Logs       shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (RefundPaymentModel) TableName() string {
	return "refund_payments"
}

// ToDomain converts the persistence model to a domain RefundPayment
func (m *RefundPaymentModel) ToDomain() *trade.RefundPayment {
	return &trade.RefundPayment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RefundID:          m.RefundID,
		SaleID:            m.SaleID,
		Amount:            m.Amount,
		Status:            trade.PaymentStatus(m.Status),
		Remarks:           m.Remarks,
		CreatedBy:         m.CreatedBy,
		CanceledBy:        m.CanceledBy,
		CanceledAt:        m.CanceledAt,
		Logs:              m.Logs,
	}
}

// RefundPaymentModelFromDomain creates a new persistence model from a domain RefundPayment
func RefundPaymentModelFromDomain(p *trade.RefundPayment) *RefundPaymentModel {
	m := &RefundPaymentModel{
		RefundID:   p.RefundID,
		SaleID:     p.SaleID,
		Amount:     p.Amount,
		Status:     string(p.Status),
		Remarks:    p.Remarks,
		CreatedBy:  p.CreatedBy,
		CanceledBy: p.CanceledBy,
		CanceledAt: p.CanceledAt,
		Logs:       p.Logs,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// PurchaseOrderModel is the persistence model for a purchase order
type PurchaseOrderModel struct {
	AggregateModel
	OrderNumber  string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierName string                   `gorm:"type:varchar(200);not null"`
	Lines        []PurchaseOrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
	TotalCost    decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Status       string                   `gorm:"type:varchar(20);not null"`
	Remarks      string                   `gorm:"type:text"`
	CreatedBy    uuid.UUID                `gorm:"type:uuid;not null"`
	CompletedBy  *uuid.UUID               `gorm:"type:uuid"`
	CompletedAt  *time.Time
	CanceledBy   *uuid.UUID `gorm:"type:uuid"`
	CanceledAt   *time.Time
	Logs         shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	o := &trade.PurchaseOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		SupplierName:      m.SupplierName,
		Lines:             make([]trade.PurchaseOrderLine, len(m.Lines)),
		TotalCost:         m.TotalCost,
		Status:            trade.SaleStatus(m.Status),
		Remarks:           m.Remarks,
		CreatedBy:         m.CreatedBy,
		CompletedBy:       m.CompletedBy,
		CompletedAt:       m.CompletedAt,
		CanceledBy:        m.CanceledBy,
		CanceledAt:        m.CanceledAt,
		Logs:              m.Logs,
	}
	for i, l := range m.Lines {
		o.Lines[i] = trade.PurchaseOrderLine{
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Total:       l.Total,
		}
	}
	return o
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:  o.OrderNumber,
		SupplierName: o.SupplierName,
		Lines:        make([]PurchaseOrderLineModel, len(o.Lines)),
		TotalCost:    o.TotalCost,
		Status:       string(o.Status),
		Remarks:      o.Remarks,
		CreatedBy:    o.CreatedBy,
		CompletedBy:  o.CompletedBy,
		CompletedAt:  o.CompletedAt,
		CanceledBy:   o.CanceledBy,
		CanceledAt:   o.CanceledAt,
		Logs:         o.Logs,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i, l := range o.Lines {
		m.Lines[i] = PurchaseOrderLineModel{
			OrderID:     o.ID,
			Position:    i,
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Total:       l.Total,
		}
	}
	return m
}

// PurchaseOrderLineModel is one product line of a purchase order
type PurchaseOrderLineModel struct {
	OrderID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// DeliveryModel is the persistence model for a delivery
type DeliveryModel struct {
	AggregateModel
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleNumber  string    `gorm:"type:varchar(50);not null"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Method      string    `gorm:"type:varchar(20);not null"`
	Address     string    `gorm:"type:varchar(500)"`
	Status      string    `gorm:"type:varchar(20);not null"`
	Remarks     string    `gorm:"type:text"`
	DeliveredAt *time.Time
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	CompletedBy *uuid.UUID `gorm:"type:uuid"`
	CanceledBy  *uuid.UUID `gorm:"type:uuid"`
	CanceledAt  *time.Time
	Logs        shared.ActivityLog `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// ToDomain converts the persistence model to a domain Delivery
func (m *DeliveryModel) ToDomain() *trade.Delivery {
	return &trade.Delivery{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SaleID:            m.SaleID,
		SaleNumber:        m.SaleNumber,
		ClientID:          m.ClientID,
		Method:            trade.DeliveryMethod(m.Method),
		Address:           m.Address,
		Status:            trade.SaleStatus(m.Status),
		Remarks:           m.Remarks,
		DeliveredAt:       m.DeliveredAt,
		CreatedBy:         m.CreatedBy,
		CompletedBy:       m.CompletedBy,
		CanceledBy:        m.CanceledBy,
		CanceledAt:        m.CanceledAt,
		Logs:              m.Logs,
	}
}

// DeliveryModelFromDomain creates a new persistence model from a domain Delivery
func DeliveryModelFromDomain(d *trade.Delivery) *DeliveryModel {
	m := &DeliveryModel{
		SaleID:      d.SaleID,
		SaleNumber:  d.SaleNumber,
		ClientID:    d.ClientID,
		Method:      string(d.Method),
		Address:     d.Address,
		Status:      string(d.Status),
		Remarks:     d.Remarks,
		DeliveredAt: d.DeliveredAt,
		CreatedBy:   d.CreatedBy,
		CompletedBy: d.CompletedBy,
		CanceledBy:  d.CanceledBy,
		CanceledAt:  d.CanceledAt,
		Logs:        d.Logs,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}

// AllModels lists every table model in dependency order, for AutoMigrate
func AllModels() []any {
	return []any{
		&CurrencyModel{},
		&ExchangeRateModel{},
		&ProductModel{},
		&StockMovementModel{},
		&ClientModel{},
		&ClientBalanceModel{},
		&CreditLineModel{},
		&BalancePaymentModel{},
		&CreditPaymentModel{},
		&SaleModel{},
		&SaleLineModel{},
		&PaymentModel{},
		&RefundModel{},
		&RefundPaymentModel{},
		&SaleReturnModel{},
		&ReturnLineModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderLineModel{},
		&DeliveryModel{},
	}
}
