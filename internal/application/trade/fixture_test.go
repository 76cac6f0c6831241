package trade

import (
	"context"
	"sync"
	"testing"

	appcatalog "github.com/erp/backoffice/internal/application/catalog"
	appcurrency "github.com/erp/backoffice/internal/application/currency"
	apppartner "github.com/erp/backoffice/internal/application/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// fixture wires every trade service to one in-memory database
type fixture struct {
	ctx        context.Context
	actor      uuid.UUID
	sales      *SaleService
	payments   *PaymentService
	returns    *ReturnService
	refunds    *RefundService
	orders     *PurchaseOrderService
	deliveries *DeliveryService
	accounts   *apppartner.AccountService
	catalog    *appcatalog.ProductService
	events     *recordingPublisher

	currencyID uuid.UUID
	clientID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	}, persistence.Options{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zaptest.NewLogger(t)
	scope := persistence.NewGormTransactionScope(db.DB)
	rates := appcurrency.NewRateResolver(nil, logger)
	events := &recordingPublisher{}

	f := &fixture{
		ctx:        context.Background(),
		actor:      uuid.New(),
		sales:      NewSaleService(scope, rates, logger),
		payments:   NewPaymentService(scope, logger),
		returns:    NewReturnService(scope, logger),
		refunds:    NewRefundService(scope, logger),
		orders:     NewPurchaseOrderService(scope, logger),
		deliveries: NewDeliveryService(scope, logger),
		accounts:   apppartner.NewAccountService(scope, logger),
		catalog:    appcatalog.NewProductService(scope, logger),
		events:     events,
	}
	for _, svc := range []interface{ SetEventPublisher(shared.EventPublisher) }{
		f.sales, f.payments, f.returns, f.refunds, f.orders, f.deliveries,
	} {
		svc.SetEventPublisher(events)
	}

	usd, err := appcurrency.NewCurrencyService(scope, rates, logger).CreateCurrency(f.ctx, appcurrency.CreateCurrencyRequest{
		Code: "USD", Name: "US Dollar", Symbol: "$", IsBase: true,
	})
	require.NoError(t, err)
	f.currencyID = usd.ID

	client, err := f.accounts.CreateClient(f.ctx, f.actor, apppartner.CreateClientRequest{
		Code: "CL-001", Name: "Corner Shop",
	})
	require.NoError(t, err)
	f.clientID = client.ID

	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// product creates a product priced at price with opening stock
func (f *fixture) product(t *testing.T, price string, stock int64) uuid.UUID {
	t.Helper()
	p, err := f.catalog.CreateProduct(f.ctx, f.actor, appcatalog.CreateProductRequest{
		Code:         "P-" + uuid.NewString()[:8],
		Name:         "Product " + price,
		CurrentPrice: dec(price),
		OpeningStock: stock,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID uuid.UUID) int64 {
	t.Helper()
	p, err := f.catalog.GetProduct(f.ctx, productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *fixture) creditLimit(t *testing.T, limit string) {
	t.Helper()
	_, err := f.accounts.SetCreditLimit(f.ctx, f.actor, f.clientID, apppartner.SetCreditLimitRequest{
		CurrencyID: f.currencyID,
		Limit:      dec(limit),
	})
	require.NoError(t, err)
}

func (f *fixture) currentCredit(t *testing.T) decimal.Decimal {
	t.Helper()
	acc, err := f.accounts.GetAccount(f.ctx, f.clientID)
	require.NoError(t, err)
	for _, l := range acc.CreditLines {
		if l.CurrencyID == f.currencyID {
			return l.CurrentCredit
		}
	}
	return decimal.Zero
}

func (f *fixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	acc, err := f.accounts.GetAccount(f.ctx, f.clientID)
	require.NoError(t, err)
	for _, b := range acc.Balances {
		if b.CurrencyID == f.currencyID {
			return b.Amount
		}
	}
	return decimal.Zero
}

type line struct {
	product  uuid.UUID
	quantity int64
}

func (f *fixture) createSale(t *testing.T, credit bool, lines ...line) *SaleResponse {
	t.Helper()
	sale, err := f.sales.CreateSale(f.ctx, f.actor, f.saleRequest(credit, lines...))
	require.NoError(t, err)
	return sale
}

func (f *fixture) saleRequest(credit bool, lines ...line) CreateSaleRequest {
	in := make([]SaleLineInput, len(lines))
	for i, l := range lines {
		in[i] = SaleLineInput{ProductID: l.product, Quantity: l.quantity}
	}
	return CreateSaleRequest{
		ClientID:   f.clientID,
		CurrencyID: f.currencyID,
		Lines:      in,
		CreditSale: credit,
	}
}

func (f *fixture) pay(saleID uuid.UUID, amount string) (*PaymentResponse, error) {
	return f.payments.AddPayment(f.ctx, f.actor, AddPaymentRequest{
		SaleID:      saleID,
		ClientID:    f.clientID,
		CurrencyID:  f.currencyID,
		Amount:      dec(amount),
		PaymentType: string(trade.PaymentTypeCash),
	})
}

func (f *fixture) returnGoods(saleID uuid.UUID, lines ...line) (*ReturnResponse, error) {
	in := make([]ReturnLineInput, len(lines))
	for i, l := range lines {
		in[i] = ReturnLineInput{ProductID: l.product, Quantity: l.quantity}
	}
	return f.returns.CreateReturn(f.ctx, f.actor, CreateReturnRequest{
		SaleID:   saleID,
		ClientID: f.clientID,
		Lines:    in,
	})
}
