package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/application/txscope"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements txscope.Scope with GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside one database transaction. The transaction is rolled
// back when fn returns an error or panics.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos txscope.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// gormRepositories hands out repositories bound to one transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Currencies() currency.Repository {
	return NewGormCurrencyRepository(r.tx)
}

func (r *gormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormRepositories) StockMovements() catalog.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormRepositories) Clients() partner.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormRepositories) Balances() partner.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

func (r *gormRepositories) CreditLines() partner.CreditLineRepository {
	return NewGormCreditLineRepository(r.tx)
}

func (r *gormRepositories) BalancePayments() partner.BalancePaymentRepository {
	return NewGormBalancePaymentRepository(r.tx)
}

func (r *gormRepositories) CreditPayments() partner.CreditPaymentRepository {
	return NewGormCreditPaymentRepository(r.tx)
}

func (r *gormRepositories) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormRepositories) Payments() trade.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormRepositories) Returns() trade.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

func (r *gormRepositories) Refunds() trade.RefundRepository {
	return NewGormRefundRepository(r.tx)
}

func (r *gormRepositories) RefundPayments() trade.RefundPaymentRepository {
	return NewGormRefundPaymentRepository(r.tx)
}

func (r *gormRepositories) PurchaseOrders() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormRepositories) Deliveries() trade.DeliveryRepository {
	return NewGormDeliveryRepository(r.tx)
}

var (
	_ txscope.Scope        = (*GormTransactionScope)(nil)
	_ txscope.Repositories = (*gormRepositories)(nil)
)
