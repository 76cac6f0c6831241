// Package txscope defines the transaction boundary application services run inside.
package txscope

import (
	"context"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/currency"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/trade"
)

// Scope provides transactional access to every repository.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to all repositories within one transaction.
// Every repository returned shares the same underlying database transaction.
type Repositories interface {
	Currencies() currency.Repository

	Products() catalog.ProductRepository
	StockMovements() catalog.StockMovementRepository

	Clients() partner.ClientRepository
	Balances() partner.BalanceRepository
	CreditLines() partner.CreditLineRepository
	BalancePayments() partner.BalancePaymentRepository
	CreditPayments() partner.CreditPaymentRepository

	Sales() trade.SaleRepository
	Payments() trade.PaymentRepository
	Returns() trade.ReturnRepository
	Refunds() trade.RefundRepository
	RefundPayments() trade.RefundPaymentRepository
	PurchaseOrders() trade.PurchaseOrderRepository
	Deliveries() trade.DeliveryRepository
}
