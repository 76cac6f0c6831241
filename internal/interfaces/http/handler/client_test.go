package handler

import (
	"net/http"
	"testing"

	catalogapp "github.com/erp/backoffice/internal/application/catalog"
	currencyapp "github.com/erp/backoffice/internal/application/currency"
	partnerapp "github.com/erp/backoffice/internal/application/partner"
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestClientHandler_Balance(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)
	clientPath := "/clients/" + sd.clientID.String()

	dup := call[any](t, s, http.MethodPost, "/clients", map[string]any{"code": "CL-1", "name": "Again"}, http.StatusConflict)
	assert.Equal(t, dto.ErrCodeAlreadyExists, dup.Error.Code)

	call[partnerapp.LedgerEntryResponse](t, s, http.MethodPost, clientPath+"/deposits", map[string]any{
		"currency_id": sd.currencyID, "amount": "100",
	}, http.StatusCreated)

	zero := call[any](t, s, http.MethodPost, clientPath+"/deposits", map[string]any{
		"currency_id": sd.currencyID, "amount": "0",
	}, http.StatusBadRequest)
	assert.Equal(t, "INVALID_AMOUNT", zero.Error.Code)

	spent := call[partnerapp.LedgerEntryResponse](t, s, http.MethodPost, "/balance-payments", map[string]any{
		"client_id": sd.clientID, "currency_id": sd.currencyID, "amount": "40",
	}, http.StatusCreated)

	overdraw := call[any](t, s, http.MethodPost, "/balance-payments", map[string]any{
		"client_id": sd.clientID, "currency_id": sd.currencyID, "amount": "60.01",
	}, http.StatusUnprocessableEntity)
	assert.Equal(t, shared.CodeInsufficientBalance, overdraw.Error.Code)

	account := call[partnerapp.AccountResponse](t, s, http.MethodGet, clientPath+"/account", nil, http.StatusOK)
	require.Len(t, account.Data.Balances, 1)
	assertMoney(t, "60", account.Data.Balances[0].Amount)

	spentPath := "/balance-payments/" + spent.Data.ID.String()
	call[any](t, s, http.MethodDelete, spentPath, nil, http.StatusUnprocessableEntity)
	call[partnerapp.LedgerEntryResponse](t, s, http.MethodPost, spentPath+"/cancel", nil, http.StatusOK)
	call[any](t, s, http.MethodDelete, spentPath, nil, http.StatusNoContent)

	account = call[partnerapp.AccountResponse](t, s, http.MethodGet, clientPath+"/account", nil, http.StatusOK)
	assertMoney(t, "100", account.Data.Balances[0].Amount)

	ledger := call[[]partnerapp.LedgerEntryResponse](t, s, http.MethodGet, clientPath+"/ledger", nil, http.StatusOK)
	assert.NotEmpty(t, ledger.Data)
}

func TestClientHandler_CreditLine(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "25", 10)
	clientPath := "/clients/" + sd.clientID.String()

	noLine := call[any](t, s, http.MethodPost, "/sales", map[string]any{
		"client_id":   sd.clientID,
		"currency_id": sd.currencyID,
		"credit_sale": true,
		"lines":       []map[string]any{{"product_id": sd.productID, "quantity": 1}},
	}, http.StatusUnprocessableEntity)
	assert.Equal(t, shared.CodeCreditLimitExceeded, noLine.Error.Code)

	line := call[partnerapp.CreditLineResponse](t, s, http.MethodPut, clientPath+"/credit-limits", map[string]any{
		"currency_id": sd.currencyID, "limit": "100",
	}, http.StatusOK)
	assertMoney(t, "100", line.Data.Available)

	sale := s.createSale(t, sd, 2, true)
	assert.Equal(t, "completed", sale.Status)

	repaid := call[partnerapp.LedgerEntryResponse](t, s, http.MethodPost, "/credit-payments", map[string]any{
		"client_id": sd.clientID, "currency_id": sd.currencyID, "amount": "30",
	}, http.StatusCreated)

	account := call[partnerapp.AccountResponse](t, s, http.MethodGet, clientPath+"/account", nil, http.StatusOK)
	require.Len(t, account.Data.CreditLines, 1)
	assertMoney(t, "20", account.Data.CreditLines[0].CurrentCredit)

	repaidPath := "/credit-payments/" + repaid.Data.ID.String()
	call[partnerapp.LedgerEntryResponse](t, s, http.MethodPost, repaidPath+"/cancel", nil, http.StatusOK)
	call[any](t, s, http.MethodDelete, repaidPath, nil, http.StatusNoContent)

	account = call[partnerapp.AccountResponse](t, s, http.MethodGet, clientPath+"/account", nil, http.StatusOK)
	assertMoney(t, "50", account.Data.CreditLines[0].CurrentCredit)

	below := call[any](t, s, http.MethodPut, clientPath+"/credit-limits", map[string]any{
		"currency_id": sd.currencyID, "limit": "40",
	}, http.StatusBadRequest)
	assert.Equal(t, "INVALID_CREDIT_LIMIT", below.Error.Code)
}

func TestCurrencyHandler(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)

	eur := call[currencyapp.CurrencyResponse](t, s, http.MethodPost, "/currencies", map[string]any{
		"code": "EUR", "name": "Euro", "symbol": "€", "rate": "0.9",
	}, http.StatusCreated)
	eurPath := "/currencies/" + eur.Data.ID.String()

	list := call[[]currencyapp.CurrencyResponse](t, s, http.MethodGet, "/currencies", nil, http.StatusOK)
	assert.Len(t, list.Data, 2)

	updated := call[currencyapp.CurrencyResponse](t, s, http.MethodPut, eurPath+"/rate", map[string]any{"rate": "0.95"}, http.StatusOK)
	assertMoney(t, "0.95", updated.Data.Rate)

	history := call[[]currencyapp.ExchangeRateResponse](t, s, http.MethodGet, eurPath+"/rates?limit=10", nil, http.StatusOK)
	require.NotEmpty(t, history.Data)
	assertMoney(t, "0.95", history.Data[0].Rate)

	base := call[any](t, s, http.MethodPut, "/currencies/"+sd.currencyID.String()+"/rate", map[string]any{"rate": "2"}, http.StatusUnprocessableEntity)
	assert.Equal(t, "BASE_CURRENCY_RATE", base.Error.Code)

	badCode := call[any](t, s, http.MethodPost, "/currencies", map[string]any{"code": "EURO", "name": "Euro"}, http.StatusBadRequest)
	assert.Equal(t, dto.ErrCodeValidation, badCode.Error.Code)

	got := call[currencyapp.CurrencyResponse](t, s, http.MethodGet, eurPath, nil, http.StatusOK)
	assert.Equal(t, "EUR", got.Data.Code)
}

func TestProductAndPurchaseOrderHandlers(t *testing.T) {
	s := newTestServer(t)
	sd := s.seed(t, "10", 5)
	productPath := "/products/" + sd.productID.String()

	product := call[catalogapp.ProductResponse](t, s, http.MethodGet, productPath, nil, http.StatusOK)
	assert.Equal(t, int64(5), product.Data.StockQuantity)

	order := call[tradeapp.PurchaseOrderResponse](t, s, http.MethodPost, "/purchase-orders", map[string]any{
		"supplier_name": "Acme Wholesale",
		"lines":         []map[string]any{{"product_id": sd.productID, "quantity": 7, "unit_cost": "4"}},
	}, http.StatusCreated)
	assert.Equal(t, "pending", order.Data.Status)
	orderPath := "/purchase-orders/" + order.Data.ID.String()

	call[tradeapp.PurchaseOrderResponse](t, s, http.MethodPost, orderPath+"/complete", nil, http.StatusOK)
	product = call[catalogapp.ProductResponse](t, s, http.MethodGet, productPath, nil, http.StatusOK)
	assert.Equal(t, int64(12), product.Data.StockQuantity)

	cancelled := call[tradeapp.PurchaseOrderResponse](t, s, http.MethodPost, orderPath+"/cancel", nil, http.StatusOK)
	assert.Equal(t, "cancelled", cancelled.Data.Status)
	product = call[catalogapp.ProductResponse](t, s, http.MethodGet, productPath, nil, http.StatusOK)
	assert.Equal(t, int64(5), product.Data.StockQuantity)

	got := call[tradeapp.PurchaseOrderResponse](t, s, http.MethodGet, orderPath, nil, http.StatusOK)
	assert.Equal(t, order.Data.ID, got.Data.ID)

	movements := call[[]catalogapp.StockMovementResponse](t, s, http.MethodGet, productPath+"/movements?limit=2", nil, http.StatusOK)
	assert.Len(t, movements.Data, 2)
}
