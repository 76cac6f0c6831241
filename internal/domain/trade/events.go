package trade

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSale       = "Sale"
	AggregateTypePayment    = "Payment"
	AggregateTypeSaleReturn = "SaleReturn"
	AggregateTypeRefund     = "Refund"
	AggregateTypeDelivery   = "Delivery"
)

// Event type constants
const (
	EventTypeSaleCreated      = "SaleCreated"
	EventTypeSaleCompleted    = "SaleCompleted"
	EventTypeSaleCancelled    = "SaleCancelled"
	EventTypePaymentRecorded  = "PaymentRecorded"
	EventTypePaymentCancelled = "PaymentCancelled"
	EventTypeReturnCreated    = "SaleReturnCreated"
	EventTypeReturnCancelled  = "SaleReturnCancelled"
	EventTypeRefundPaid       = "RefundPaid"

	EventTypeDeliveryScheduled = "DeliveryScheduled"
	EventTypeDeliveryCompleted = "DeliveryCompleted"
	EventTypeDeliveryCancelled = "DeliveryCancelled"
)

// SaleCreatedEvent is raised when a sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleNumber   string          `json:"sale_number"`
	ClientID     uuid.UUID       `json:"client_id"`
	CurrencyCode string          `json:"currency_code"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreditSale   bool            `json:"credit_sale"`
}

// NewSaleCreatedEvent creates a SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale, actor uuid.UUID) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID, actor),
		SaleNumber:      s.SaleNumber,
		ClientID:        s.ClientID,
		CurrencyCode:    s.CurrencyCode,
		TotalAmount:     s.TotalAmount,
		CreditSale:      s.CreditSale,
	}
}

// SaleCompletedEvent is raised when a sale is settled
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleNumber   string          `json:"sale_number"`
	CurrencyCode string          `json:"currency_code"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewSaleCompletedEvent creates a SaleCompletedEvent
func NewSaleCompletedEvent(s *Sale, actor uuid.UUID) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, s.ID, actor),
		SaleNumber:      s.SaleNumber,
		CurrencyCode:    s.CurrencyCode,
		TotalAmount:     s.TotalAmount,
	}
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleNumber string `json:"sale_number"`
	CreditSale bool   `json:"credit_sale"`
}

// NewSaleCancelledEvent creates a SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale, actor uuid.UUID) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, s.ID, actor),
		SaleNumber:      s.SaleNumber,
		CreditSale:      s.CreditSale,
	}
}

// PaymentRecordedEvent is raised when a payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	PaymentType  PaymentType     `json:"payment_type"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment, actor uuid.UUID) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, actor),
		SaleID:          p.SaleID,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
		PaymentType:     p.PaymentType,
	}
}

// PaymentCancelledEvent is raised when a payment is cancelled
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// NewPaymentCancelledEvent creates a PaymentCancelledEvent
func NewPaymentCancelledEvent(p *Payment, actor uuid.UUID) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCancelled, AggregateTypePayment, p.ID, actor),
		SaleID:          p.SaleID,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
	}
}

// ReturnCreatedEvent is raised when goods come back against a sale
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// NewReturnCreatedEvent creates a ReturnCreatedEvent
func NewReturnCreatedEvent(r *SaleReturn, actor uuid.UUID) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeSaleReturn, r.ID, actor),
		SaleID:          r.SaleID,
		Amount:          r.TotalRefundAmount,
		CurrencyCode:    r.CurrencyCode,
	}
}

// ReturnCancelledEvent is raised when a return is reversed
type ReturnCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
}

// NewReturnCancelledEvent creates a ReturnCancelledEvent
func NewReturnCancelledEvent(r *SaleReturn, actor uuid.UUID) *ReturnCancelledEvent {
	return &ReturnCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCancelled, AggregateTypeSaleReturn, r.ID, actor),
		SaleID:          r.SaleID,
	}
}

// RefundPaidEvent is raised when money is handed back against a refund
type RefundPaidEvent struct {
	shared.BaseDomainEvent
	SaleID          uuid.UUID       `json:"sale_id"`
	RefundPaymentID uuid.UUID       `json:"refund_payment_id"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currency_code"`
	Outstanding     decimal.Decimal `json:"outstanding"`
}

// NewRefundPaidEvent creates a RefundPaidEvent
func NewRefundPaidEvent(r *Refund, p *RefundPayment, actor uuid.UUID) *RefundPaidEvent {
	return &RefundPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundPaid, AggregateTypeRefund, r.ID, actor),
		SaleID:          r.SaleID,
		RefundPaymentID: p.ID,
		Amount:          p.Amount,
		CurrencyCode:    r.CurrencyCode,
		Outstanding:     r.TotalRefundAmount,
	}
}

// DeliveryEvent is raised when a delivery is scheduled, completed or cancelled
type DeliveryEvent struct {
	shared.BaseDomainEvent
	SaleID   uuid.UUID      `json:"sale_id"`
	ClientID uuid.UUID      `json:"client_id"`
	Method   DeliveryMethod `json:"method"`
}

// NewDeliveryEvent creates a DeliveryEvent of the given type
func NewDeliveryEvent(eventType string, d *Delivery, actor uuid.UUID) *DeliveryEvent {
	return &DeliveryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDelivery, d.ID, actor),
		SaleID:          d.SaleID,
		ClientID:        d.ClientID,
		Method:          d.Method,
	}
}
