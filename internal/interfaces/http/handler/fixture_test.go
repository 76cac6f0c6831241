package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/erp/backoffice/internal/application/catalog"
	currencyapp "github.com/erp/backoffice/internal/application/currency"
	partnerapp "github.com/erp/backoffice/internal/application/partner"
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope is dto.Response with a typed payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// testServer mounts every handler on a bare engine over an in-memory database
type testServer struct {
	engine *gin.Engine
	actor  uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	}, persistence.Options{LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zaptest.NewLogger(t)
	scope := persistence.NewGormTransactionScope(db.DB)
	rates := currencyapp.NewRateResolver(nil, log)

	sales := NewSaleHandler(tradeapp.NewSaleService(scope, rates, log))
	payments := NewPaymentHandler(tradeapp.NewPaymentService(scope, log))
	returns := NewReturnHandler(tradeapp.NewReturnService(scope, log))
	refunds := NewRefundHandler(tradeapp.NewRefundService(scope, log))
	orders := NewPurchaseOrderHandler(tradeapp.NewPurchaseOrderService(scope, log))
	deliveries := NewDeliveryHandler(tradeapp.NewDeliveryService(scope, log))
	clients := NewClientHandler(partnerapp.NewAccountService(scope, log))
	currencies := NewCurrencyHandler(currencyapp.NewCurrencyService(scope, rates, log))
	products := NewProductHandler(catalogapp.NewProductService(scope, log))

	s := &testServer{engine: gin.New(), actor: uuid.New()}
	s.engine.Use(middleware.RequestID())

	// X-Anonymous skips the actor so the 401 path can be exercised
	api := s.engine.Group("/api/v1", func(c *gin.Context) {
		if c.GetHeader("X-Anonymous") == "" {
			c.Set(middleware.ActorIDKey, s.actor)
		}
		c.Next()
	})

	api.POST("/sales", sales.Create)
	api.GET("/sales", sales.List)
	api.GET("/sales/:id", sales.Get)
	api.PUT("/sales/:id", sales.Edit)
	api.POST("/sales/:id/cancel", sales.Cancel)
	api.DELETE("/sales/:id", sales.Delete)
	api.GET("/sales/:id/payments", payments.ListBySale)
	api.GET("/sales/:id/returns", returns.ListBySale)
	api.GET("/sales/:id/refund", refunds.GetBySale)
	api.POST("/sales/:id/deliveries", deliveries.Create)
	api.GET("/sales/:id/deliveries", deliveries.ListBySale)

	api.POST("/payments", payments.Add)
	api.GET("/payments/:id", payments.Get)
	api.POST("/payments/:id/cancel", payments.Cancel)
	api.DELETE("/payments/:id", payments.Delete)

	api.POST("/returns", returns.Create)
	api.GET("/returns/:id", returns.Get)
	api.PUT("/returns/:id", returns.Edit)
	api.POST("/returns/:id/cancel", returns.Cancel)

	api.GET("/refunds/:id", refunds.Get)
	api.PUT("/refunds/:id", refunds.Update)
	api.POST("/refunds/:id/cancel", refunds.Cancel)
	api.POST("/refunds/:id/payments", refunds.AddPayment)
	api.GET("/refunds/:id/payments", refunds.ListPayments)
	api.POST("/refund-payments/:id/cancel", refunds.CancelPayment)
	api.DELETE("/refund-payments/:id", refunds.DeletePayment)

	api.GET("/deliveries/:id", deliveries.Get)
	api.POST("/deliveries/:id/complete", deliveries.Complete)
	api.POST("/deliveries/:id/cancel", deliveries.Cancel)

	api.POST("/purchase-orders", orders.Create)
	api.GET("/purchase-orders/:id", orders.Get)
	api.POST("/purchase-orders/:id/complete", orders.Complete)
	api.POST("/purchase-orders/:id/cancel", orders.Cancel)

	api.POST("/clients", clients.Create)
	api.GET("/clients/:id/account", clients.GetAccount)
	api.GET("/clients/:id/ledger", clients.ListLedger)
	api.PUT("/clients/:id/credit-limits", clients.SetCreditLimit)
	api.POST("/clients/:id/deposits", clients.Deposit)
	api.POST("/balance-payments", clients.AddBalancePayment)
	api.POST("/balance-payments/:id/cancel", clients.CancelBalancePayment)
	api.DELETE("/balance-payments/:id", clients.DeleteBalancePayment)
	api.POST("/credit-payments", clients.AddCreditPayment)
	api.POST("/credit-payments/:id/cancel", clients.CancelCreditPayment)
	api.DELETE("/credit-payments/:id", clients.DeleteCreditPayment)

	api.POST("/currencies", currencies.Create)
	api.GET("/currencies", currencies.List)
	api.GET("/currencies/:id", currencies.Get)
	api.PUT("/currencies/:id/rate", currencies.UpdateRate)
	api.GET("/currencies/:id/rates", currencies.ListRates)

	api.POST("/products", products.Create)
	api.GET("/products/:id", products.Get)
	api.GET("/products/:id/movements", products.ListMovements)

	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// call performs a request, checks the status and decodes the payload
func call[T any](t *testing.T, s *testServer, method, path string, body any, wantStatus int) envelope[T] {
	t.Helper()
	w := s.do(t, method, path, body)
	require.Equal(t, wantStatus, w.Code, w.Body.String())
	var resp envelope[T]
	if w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp
}

// seed creates a base currency, a client and one product with stock
type seedData struct {
	currencyID uuid.UUID
	clientID   uuid.UUID
	productID  uuid.UUID
}

func (s *testServer) seed(t *testing.T, price string, stock int64) seedData {
	t.Helper()
	cur := call[currencyapp.CurrencyResponse](t, s, http.MethodPost, "/currencies", map[string]any{
		"code": "USD", "name": "US Dollar", "symbol": "$", "is_base": true,
	}, http.StatusCreated)
	client := call[partnerapp.ClientResponse](t, s, http.MethodPost, "/clients", map[string]any{
		"code": "CL-1", "name": "Corner Shop",
	}, http.StatusCreated)
	product := call[catalogapp.ProductResponse](t, s, http.MethodPost, "/products", map[string]any{
		"code": "P-1", "name": "Widget", "current_price": price, "opening_stock": stock,
	}, http.StatusCreated)
	return seedData{currencyID: cur.Data.ID, clientID: client.Data.ID, productID: product.Data.ID}
}

func (s *testServer) createSale(t *testing.T, sd seedData, quantity int64, credit bool) tradeapp.SaleResponse {
	t.Helper()
	resp := call[tradeapp.SaleResponse](t, s, http.MethodPost, "/sales", map[string]any{
		"client_id":   sd.clientID,
		"currency_id": sd.currencyID,
		"credit_sale": credit,
		"lines": []map[string]any{
			{"product_id": sd.productID, "quantity": quantity},
		},
	}, http.StatusCreated)
	return resp.Data
}

func (s *testServer) pay(t *testing.T, sd seedData, saleID uuid.UUID, amount string, wantStatus int) envelope[tradeapp.PaymentResponse] {
	t.Helper()
	return call[tradeapp.PaymentResponse](t, s, http.MethodPost, "/payments", map[string]any{
		"sale_id":      saleID,
		"client_id":    sd.clientID,
		"currency_id":  sd.currencyID,
		"amount":       amount,
		"payment_type": "cash",
	}, wantStatus)
}
