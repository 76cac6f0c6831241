package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// SaleLineInput represents a requested sale line
type SaleLineInput struct {
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	Quantity     int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal  `json:"tax_rate"`
	DiscountRate *decimal.Decimal `json:"discount_rate"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	ClientID           uuid.UUID        `json:"client_id" binding:"required"`
	CurrencyID         uuid.UUID        `json:"currency_id" binding:"required"`
	Lines              []SaleLineInput  `json:"lines" binding:"required,min=1,dive"`
	CreditSale         bool             `json:"credit_sale"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	Remarks            string           `json:"remarks" binding:"max=500"`
}

// EditSaleRequest represents a request to edit a pending sale. Omitted fields stay unchanged.
type EditSaleRequest struct {
	ClientID *uuid.UUID      `json:"client_id"`
	Lines    []SaleLineInput `json:"lines" binding:"omitempty,min=1,dive"`
	Remarks  *string         `json:"remarks" binding:"omitempty,max=500"`
}

// SaleListFilter represents filter options for listing sales
type SaleListFilter struct {
	ClientID *uuid.UUID `form:"client_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=pending completed cancelled"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=created_at total_amount sale_number"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleLineResponse represents a priced sale line
type SaleLineResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// LogEntryResponse represents one history entry
type LogEntryResponse struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
	Actor  uuid.UUID `json:"actor"`
	Note   string    `json:"note,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	ClientID      uuid.UUID          `json:"client_id"`
	CurrencyID    uuid.UUID          `json:"currency_id"`
	CurrencyCode  string             `json:"currency_code"`
	ExchangeRate  decimal.Decimal    `json:"exchange_rate"`
	Lines         []SaleLineResponse `json:"lines"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalTax      decimal.Decimal    `json:"total_tax"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	Status        string             `json:"status"`
	CreditSale    bool               `json:"credit_sale"`
	StockDeducted bool               `json:"stock_deducted"`
	Remarks       string             `json:"remarks,omitempty"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	UpdatedBy     uuid.UUID          `json:"updated_by"`
	CompletedBy   *uuid.UUID         `json:"completed_by,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CanceledBy    *uuid.UUID         `json:"canceled_by,omitempty"`
	CanceledAt    *time.Time         `json:"canceled_at,omitempty"`
	Logs          []LogEntryResponse `json:"logs"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ==================== Payment DTOs ====================

// AddPaymentRequest represents a request to record a payment against a sale
type AddPaymentRequest struct {
	SaleID      uuid.UUID       `json:"sale_id" binding:"required"`
	ClientID    uuid.UUID       `json:"client_id" binding:"required"`
	CurrencyID  uuid.UUID       `json:"currency_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentType string          `json:"payment_type" binding:"required,oneof=cash check bank_transfer balance"`
	Remarks     string          `json:"remarks" binding:"max=500"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID           uuid.UUID          `json:"id"`
	SaleID       uuid.UUID          `json:"sale_id"`
	ClientID     uuid.UUID          `json:"client_id"`
	CurrencyID   uuid.UUID          `json:"currency_id"`
	CurrencyCode string             `json:"currency_code"`
	Amount       decimal.Decimal    `json:"amount"`
	PaymentType  string             `json:"payment_type"`
	Status       string             `json:"status"`
	Remarks      string             `json:"remarks,omitempty"`
	SaleStatus   string             `json:"sale_status,omitempty"`
	CreatedBy    uuid.UUID          `json:"created_by"`
	CanceledBy   *uuid.UUID         `json:"canceled_by,omitempty"`
	CanceledAt   *time.Time         `json:"canceled_at,omitempty"`
	Logs         []LogEntryResponse `json:"logs"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ==================== Return DTOs ====================

// ReturnLineInput represents a returned quantity
type ReturnLineInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateReturnRequest represents a request to return goods of a sale
type CreateReturnRequest struct {
	SaleID   uuid.UUID         `json:"sale_id" binding:"required"`
	ClientID uuid.UUID         `json:"client_id" binding:"required"`
	Lines    []ReturnLineInput `json:"lines" binding:"required,min=1,dive"`
	Remarks  string            `json:"remarks" binding:"max=500"`
}

// EditReturnRequest represents a request to edit a pending return
type EditReturnRequest struct {
	Lines   []ReturnLineInput `json:"lines" binding:"required,min=1,dive"`
	Remarks *string           `json:"remarks" binding:"omitempty,max=500"`
}

// ReturnLineResponse represents a returned line
type ReturnLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// ReturnResponse represents a return in API responses
type ReturnResponse struct {
	ID                uuid.UUID            `json:"id"`
	ReturnNumber      string               `json:"return_number"`
	SaleID            uuid.UUID            `json:"sale_id"`
	ClientID          uuid.UUID            `json:"client_id"`
	CurrencyCode      string               `json:"currency_code"`
	Lines             []ReturnLineResponse `json:"lines"`
	TotalRefundAmount decimal.Decimal      `json:"total_refund_amount"`
	RefundEligible    decimal.Decimal      `json:"refund_eligible"`
	CreditReleased    decimal.Decimal      `json:"credit_released"`
	StockRestocked    bool                 `json:"stock_restocked"`
	Status            string               `json:"status"`
	RefundID          *uuid.UUID           `json:"refund_id,omitempty"`
	Remarks           string               `json:"remarks,omitempty"`
	CreatedBy         uuid.UUID            `json:"created_by"`
	CanceledBy        *uuid.UUID           `json:"canceled_by,omitempty"`
	Logs              []LogEntryResponse   `json:"logs"`
	CreatedAt         time.Time            `json:"created_at"`
}

// ==================== Refund DTOs ====================

// AddRefundPaymentRequest represents a request to pay out part of a refund
type AddRefundPaymentRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Remarks string          `json:"remarks" binding:"max=500"`
}

// UpdateRefundRequest represents a request to change refund remarks
type UpdateRefundRequest struct {
	Remarks string `json:"remarks" binding:"max=500"`
}

// RefundResponse represents a refund in API responses
type RefundResponse struct {
	ID                uuid.UUID          `json:"id"`
	SaleID            uuid.UUID          `json:"sale_id"`
	ClientID          uuid.UUID          `json:"client_id"`
	CurrencyCode      string             `json:"currency_code"`
	TotalRefundAmount decimal.Decimal    `json:"total_refund_amount"`
	RefundedAmount    decimal.Decimal    `json:"refunded_amount"`
	Status            string             `json:"status"`
	Remarks           string             `json:"remarks,omitempty"`
	Logs              []LogEntryResponse `json:"logs"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// RefundPaymentResponse represents a refund payment in API responses
type RefundPaymentResponse struct {
	ID         uuid.UUID          `json:"id"`
	RefundID   uuid.UUID          `json:"refund_id"`
	SaleID     uuid.UUID          `json:"sale_id"`
	Amount     decimal.Decimal    `json:"amount"`
	Status     string             `json:"status"`
	Remarks    string             `json:"remarks,omitempty"`
	CreatedBy  uuid.UUID          `json:"created_by"`
	CanceledBy *uuid.UUID         `json:"canceled_by,omitempty"`
	Logs       []LogEntryResponse `json:"logs"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ==================== Purchase Order DTOs ====================

// PurchaseOrderLineInput represents a requested purchase order line
type PurchaseOrderLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to order stock from a supplier
type CreatePurchaseOrderRequest struct {
	SupplierName string                   `json:"supplier_name" binding:"required,min=1,max=200"`
	Lines        []PurchaseOrderLineInput `json:"lines" binding:"required,min=1,dive"`
	Remarks      string                   `json:"remarks" binding:"max=500"`
}

// PurchaseOrderLineResponse represents a purchase order line
type PurchaseOrderLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierName string                      `json:"supplier_name"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	TotalCost    decimal.Decimal             `json:"total_cost"`
	Status       string                      `json:"status"`
	Remarks      string                      `json:"remarks,omitempty"`
	CompletedAt  *time.Time                  `json:"completed_at,omitempty"`
	CanceledAt   *time.Time                  `json:"canceled_at,omitempty"`
	Logs         []LogEntryResponse          `json:"logs"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// CreateDeliveryRequest represents a request to deliver the goods of a sale
type CreateDeliveryRequest struct {
	Method  string `json:"method" binding:"required,oneof=store client_address"`
	Address string `json:"address" binding:"max=500"`
	Remarks string `json:"remarks" binding:"max=500"`
}

// DeliveryResponse represents a delivery in API responses
type DeliveryResponse struct {
	ID          uuid.UUID          `json:"id"`
	SaleID      uuid.UUID          `json:"sale_id"`
	SaleNumber  string             `json:"sale_number"`
	ClientID    uuid.UUID          `json:"client_id"`
	Method      string             `json:"method"`
	Address     string             `json:"address,omitempty"`
	Status      string             `json:"status"`
	Remarks     string             `json:"remarks,omitempty"`
	DeliveredAt *time.Time         `json:"delivered_at,omitempty"`
	CanceledAt  *time.Time         `json:"canceled_at,omitempty"`
	Logs        []LogEntryResponse `json:"logs"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ==================== Converters ====================

func toLogResponses(logs shared.ActivityLog) []LogEntryResponse {
	out := make([]LogEntryResponse, len(logs))
	for i, l := range logs {
		out[i] = LogEntryResponse{Action: l.Action, At: l.At, Actor: l.Actor, Note: l.Note}
	}
	return out
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale, paid decimal.Decimal) SaleResponse {
	lines := make([]SaleLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = SaleLineResponse{
			ProductID:      l.ProductID,
			ProductCode:    l.ProductCode,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			TaxRate:        l.TaxRate,
			DiscountRate:   l.DiscountRate,
			TaxAmount:      l.TaxAmount,
			DiscountAmount: l.DiscountAmount,
			Total:          l.Total,
		}
	}
	return SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		ClientID:      s.ClientID,
		CurrencyID:    s.CurrencyID,
		CurrencyCode:  s.CurrencyCode,
		ExchangeRate:  s.ExchangeRate,
		Lines:         lines,
		TotalAmount:   s.TotalAmount,
		TotalTax:      s.TotalTax,
		TotalDiscount: s.TotalDiscount,
		PaidAmount:    shared.Round2(paid),
		Status:        string(s.Status),
		CreditSale:    s.CreditSale,
		StockDeducted: s.StockDeducted,
		Remarks:       s.Remarks,
		CreatedBy:     s.CreatedBy,
		UpdatedBy:     s.UpdatedBy,
		CompletedBy:   s.CompletedBy,
		CompletedAt:   s.CompletedAt,
		CanceledBy:    s.CanceledBy,
		CanceledAt:    s.CanceledAt,
		Logs:          toLogResponses(s.Logs),
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *trade.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
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
		Logs:         toLogResponses(p.Logs),
		CreatedAt:    p.CreatedAt,
	}
}

// ToReturnResponse converts a domain SaleReturn to ReturnResponse
func ToReturnResponse(r *trade.SaleReturn) ReturnResponse {
	lines := make([]ReturnLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReturnLineResponse{
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		}
	}
	return ReturnResponse{
		ID:                r.ID,
		ReturnNumber:      r.ReturnNumber,
		SaleID:            r.SaleID,
		ClientID:          r.ClientID,
		CurrencyCode:      r.CurrencyCode,
		Lines:             lines,
		TotalRefundAmount: r.TotalRefundAmount,
		RefundEligible:    r.RefundEligible,
		CreditReleased:    r.CreditReleased,
		StockRestocked:    r.StockRestocked,
		Status:            string(r.Status),
		RefundID:          r.RefundID,
		Remarks:           r.Remarks,
		CreatedBy:         r.CreatedBy,
		CanceledBy:        r.CanceledBy,
		Logs:              toLogResponses(r.Logs),
		CreatedAt:         r.CreatedAt,
	}
}

// ToRefundResponse converts a domain Refund to RefundResponse
func ToRefundResponse(r *trade.Refund) RefundResponse {
	return RefundResponse{
		ID:                r.ID,
		SaleID:            r.SaleID,
		ClientID:          r.ClientID,
		CurrencyCode:      r.CurrencyCode,
		TotalRefundAmount: r.TotalRefundAmount,
		RefundedAmount:    r.RefundedAmount,
		Status:            string(r.Status),
		Remarks:           r.Remarks,
		Logs:              toLogResponses(r.Logs),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ToRefundPaymentResponse converts a domain RefundPayment to RefundPaymentResponse
func ToRefundPaymentResponse(p *trade.RefundPayment) RefundPaymentResponse {
	return RefundPaymentResponse{
		ID:         p.ID,
		RefundID:   p.RefundID,
		SaleID:     p.SaleID,
		Amount:     p.Amount,
		Status:     string(p.Status),
		Remarks:    p.Remarks,
		CreatedBy:  p.CreatedBy,
		CanceledBy: p.CanceledBy,
		Logs:       toLogResponses(p.Logs),
		CreatedAt:  p.CreatedAt,
	}
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = PurchaseOrderLineResponse{
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Total:       l.Total,
		}
	}
	return PurchaseOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		SupplierName: o.SupplierName,
		Lines:        lines,
		TotalCost:    o.TotalCost,
		Status:       string(o.Status),
		Remarks:      o.Remarks,
		CompletedAt:  o.CompletedAt,
		CanceledAt:   o.CanceledAt,
		Logs:         toLogResponses(o.Logs),
		CreatedAt:    o.CreatedAt,
	}
}

func toLineInputs(in []SaleLineInput) []trade.LineInput {
	out := make([]trade.LineInput, len(in))
	for i, l := range in {
		out[i] = trade.LineInput{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			DiscountRate: l.DiscountRate,
		}
	}
	return out
}

func toReturnItems(in []ReturnLineInput) []trade.ReturnItem {
	out := make([]trade.ReturnItem, len(in))
	for i, l := range in {
		out[i] = trade.ReturnItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return out
}

// ToDeliveryResponse converts a domain Delivery to DeliveryResponse
func ToDeliveryResponse(d *trade.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:          d.ID,
		SaleID:      d.SaleID,
		SaleNumber:  d.SaleNumber,
		ClientID:    d.ClientID,
		Method:      string(d.Method),
		Address:     d.Address,
		Status:      string(d.Status),
		Remarks:     d.Remarks,
		DeliveredAt: d.DeliveredAt,
		CanceledAt:  d.CanceledAt,
		Logs:        toLogResponses(d.Logs),
		CreatedAt:   d.CreatedAt,
	}
}
