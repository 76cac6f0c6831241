package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository persists sales with their lines
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate row-locks the sale for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)
	Save(ctx context.Context, s *Sale) error
	// SaveWithLock updates the sale only if the stored version still equals Version,
	// then bumps Version
	SaveWithLock(ctx context.Context, s *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository persists sale payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]Payment, error)
	// SumActiveBySale returns the sum of non-cancelled payments of a sale
	SumActiveBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error)
	CountActiveBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	Save(ctx context.Context, p *Payment) error
	SaveWithLock(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReturnRepository persists sale returns
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SaleReturn, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SaleReturn, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]SaleReturn, error)
	ListByRefund(ctx context.Context, refundID uuid.UUID) ([]SaleReturn, error)
	// SumEligibleBySale sums the refund-eligible amounts of the sale's
	// non-cancelled returns, leaving out excludeID
	SumEligibleBySale(ctx context.Context, saleID, excludeID uuid.UUID) (decimal.Decimal, error)
	CountPendingBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	Save(ctx context.Context, r *SaleReturn) error
	SaveWithLock(ctx context.Context, r *SaleReturn) error
}

// RefundRepository persists refunds
type RefundRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Refund, error)
	// FindActiveBySaleForUpdate returns the pending or partial refund of a sale, or shared.ErrNotFound
	FindActiveBySaleForUpdate(ctx context.Context, saleID uuid.UUID) (*Refund, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]Refund, error)
	CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	Save(ctx context.Context, r *Refund) error
	SaveWithLock(ctx context.Context, r *Refund) error
}

// RefundPaymentRepository persists refund payments
type RefundPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RefundPayment, error)
	ListByRefund(ctx context.Context, refundID uuid.UUID) ([]RefundPayment, error)
	CountActiveByRefund(ctx context.Context, refundID uuid.UUID) (int64, error)
	Save(ctx context.Context, p *RefundPayment) error
	SaveWithLock(ctx context.Context, p *RefundPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	Save(ctx context.Context, o *PurchaseOrder) error
	SaveWithLock(ctx context.Context, o *PurchaseOrder) error
}

// DeliveryRepository persists deliveries
type DeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Delivery, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]Delivery, error)
	CountPendingBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	CountBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
	Save(ctx context.Context, d *Delivery) error
	SaveWithLock(ctx context.Context, d *Delivery) error
}
