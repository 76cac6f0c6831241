package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Equal(t, "/api/v1", r.Prefix())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.Prefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Api"))
}

func TestDomainGroup(t *testing.T) {
	ok := func(status int) gin.HandlerFunc {
		return func(c *gin.Context) { c.Status(status) }
	}

	engine := gin.New()
	g := NewDomainGroup("catalog", "/catalog")
	g.Use(func(c *gin.Context) {
		c.Header("X-Group", g.Name())
		c.Next()
	})
	g.GET("/items", ok(http.StatusOK)).
		POST("/items", ok(http.StatusCreated)).
		PUT("/items/:id", ok(http.StatusOK)).
		DELETE("/items/:id", ok(http.StatusNoContent))
	g.Group("units", "/units").GET("", ok(http.StatusAccepted))
	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, "/catalog", g.Prefix())
	assert.ElementsMatch(t, []string{
		"GET /catalog/items",
		"POST /catalog/items",
		"PUT /catalog/items/:id",
		"DELETE /catalog/items/:id",
		"GET /catalog/units",
	}, g.Routes())

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/v1/catalog/items", http.StatusOK},
		{http.MethodPost, "/api/v1/catalog/items", http.StatusCreated},
		{http.MethodPut, "/api/v1/catalog/items/1", http.StatusOK},
		{http.MethodDelete, "/api/v1/catalog/items/1", http.StatusNoContent},
		{http.MethodGet, "/api/v1/catalog/units", http.StatusAccepted},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, tt.want, w.Code, tt.method+" "+tt.path)
		assert.Equal(t, "catalog", w.Header().Get("X-Group"))
	}
}

func emptyHandlers() Handlers {
	return Handlers{
		Sales:          &handler.SaleHandler{},
		Payments:       &handler.PaymentHandler{},
		Returns:        &handler.ReturnHandler{},
		Refunds:        &handler.RefundHandler{},
		Clients:        &handler.ClientHandler{},
		Currencies:     &handler.CurrencyHandler{},
		Products:       &handler.ProductHandler{},
		PurchaseOrders: &handler.PurchaseOrderHandler{},
		Deliveries:     &handler.DeliveryHandler{},
		System:         handler.NewSystemHandler("backoffice", "test"),
	}
}

func TestDomainGroups_CoverTheAPI(t *testing.T) {
	var routes []string
	for _, g := range DomainGroups(emptyHandlers()) {
		routes = append(routes, g.Routes()...)
	}

	for _, want := range []string{
		"POST /sales", "GET /sales", "GET /sales/:id", "PUT /sales/:id",
		"POST /sales/:id/cancel", "DELETE /sales/:id",
		"POST /payments", "GET /sales/:id/payments", "POST /payments/:id/cancel", "DELETE /payments/:id",
		"POST /returns", "GET /returns/:id", "PUT /returns/:id", "POST /returns/:id/cancel",
		"GET /refunds/:id", "PUT /refunds/:id", "POST /refunds/:id/cancel",
		"POST /refunds/:id/payments", "POST /refund-payments/:id/cancel", "DELETE /refund-payments/:id",
		"POST /clients", "GET /clients/:id/account",
		"PUT /clients/:id/credit-limits", "POST /clients/:id/deposits",
		"POST /balance-payments", "POST /balance-payments/:id/cancel", "DELETE /balance-payments/:id",
		"POST /credit-payments", "POST /credit-payments/:id/cancel", "DELETE /credit-payments/:id",
		"POST /currencies", "PUT /currencies/:id/rate", "GET /currencies/:id/rates",
		"POST /products", "GET /products/:id", "GET /products/:id/movements",
		"POST /purchase-orders", "POST /purchase-orders/:id/complete", "POST /purchase-orders/:id/cancel",
		"POST /sales/:id/deliveries", "GET /sales/:id/deliveries",
		"GET /deliveries/:id", "POST /deliveries/:id/complete", "POST /deliveries/:id/cancel",
	} {
		assert.Contains(t, routes, want)
	}
}

func TestRegister_Authentication(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "router-test-secret", Issuer: "backoffice"})
	engine := NewEngine(EngineConfig{
		HTTP:   config.HTTPConfig{MaxBodySize: 1 << 20, RequestTimeout: 5 * time.Second},
		Logger: zaptest.NewLogger(t),
	})
	Register(engine, emptyHandlers(), middleware.ActorConfig{JWTService: jwtService})

	t.Run("health is public", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("system ping is public", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/system/ping")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("api requires an actor", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/api/v1/sales/"+uuid.NewString()+"/cancel")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user header is ignored unless allowed", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/api/v1/sales/x/cancel", middleware.ActorHeader, uuid.NewString())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer token resolves the actor", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "clerk", time.Minute)
		require.NoError(t, err)

		// the handler gets past the actor check and rejects the id
		w := serve(engine, http.MethodPost, "/api/v1/sales/not-a-uuid/cancel", "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegister_UserHeader(t *testing.T) {
	engine := NewEngine(EngineConfig{Logger: zaptest.NewLogger(t)})
	Register(engine, emptyHandlers(), middleware.ActorConfig{
		JWTService:      auth.NewJWTService(config.JWTConfig{Secret: "s"}),
		AllowUserHeader: true,
	})

	w := serve(engine, http.MethodPost, "/api/v1/payments/not-a-uuid/cancel", middleware.ActorHeader, uuid.NewString())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
