package router

import (
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler of the back-office API
type Handlers struct {
	Sales          *handler.SaleHandler
	Payments       *handler.PaymentHandler
	Returns        *handler.ReturnHandler
	Refunds        *handler.RefundHandler
	Clients        *handler.ClientHandler
	Currencies     *handler.CurrencyHandler
	Products       *handler.ProductHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Deliveries     *handler.DeliveryHandler
	System         *handler.SystemHandler
}

// Register mounts /health, the system endpoints and every domain group on
// engine. Versioned routes require an actor; health and system routes don't.
func Register(engine *gin.Engine, h Handlers, actor middleware.ActorConfig) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	actor.SkipPaths = append(actor.SkipPaths,
		r.Prefix()+"/system/ping",
		r.Prefix()+"/system/info",
	)
	r.Use(middleware.Actor(actor), middleware.TracingAttributeInjector())

	for _, group := range DomainGroups(h) {
		r.Register(group)
	}
	r.Setup()
	return r
}

// DomainGroups returns the route groups of the versioned API
func DomainGroups(h Handlers) []*DomainGroup {
	trade := NewDomainGroup("trade", "")
	trade.Group("sales", "/sales").
		POST("", h.Sales.Create).
		GET("", h.Sales.List).
		GET("/:id", h.Sales.Get).
		PUT("/:id", h.Sales.Edit).
		POST("/:id/cancel", h.Sales.Cancel).
		DELETE("/:id", h.Sales.Delete).
		GET("/:id/payments", h.Payments.ListBySale).
		GET("/:id/returns", h.Returns.ListBySale).
		GET("/:id/refund", h.Refunds.GetBySale).
		POST("/:id/deliveries", h.Deliveries.Create).
		GET("/:id/deliveries", h.Deliveries.ListBySale)
	trade.Group("payments", "/payments").
		POST("", h.Payments.Add).
		GET("/:id", h.Payments.Get).
		POST("/:id/cancel", h.Payments.Cancel).
		DELETE("/:id", h.Payments.Delete)
	trade.Group("returns", "/returns").
		POST("", h.Returns.Create).
		GET("/:id", h.Returns.Get).
		PUT("/:id", h.Returns.Edit).
		POST("/:id/cancel", h.Returns.Cancel)
	trade.Group("refunds", "/refunds").
		GET("/:id", h.Refunds.Get).
		PUT("/:id", h.Refunds.Update).
		POST("/:id/cancel", h.Refunds.Cancel).
		POST("/:id/payments", h.Refunds.AddPayment).
		GET("/:id/payments", h.Refunds.ListPayments)
	trade.Group("refund-payments", "/refund-payments").
		POST("/:id/cancel", h.Refunds.CancelPayment).
		DELETE("/:id", h.Refunds.DeletePayment)
	trade.Group("deliveries", "/deliveries").
		GET("/:id", h.Deliveries.Get).
		POST("/:id/complete", h.Deliveries.Complete).
		POST("/:id/cancel", h.Deliveries.Cancel)
	trade.Group("purchase-orders", "/purchase-orders").
		POST("", h.PurchaseOrders.Create).
		GET("/:id", h.PurchaseOrders.Get).
		POST("/:id/complete", h.PurchaseOrders.Complete).
		POST("/:id/cancel", h.PurchaseOrders.Cancel)

	partner := NewDomainGroup("partner", "")
	partner.Group("clients", "/clients").
		POST("", h.Clients.Create).
		GET("/:id/account", h.Clients.GetAccount).
		GET("/:id/ledger", h.Clients.ListLedger).
		PUT("/:id/credit-limits", h.Clients.SetCreditLimit).
		POST("/:id/deposits", h.Clients.Deposit)
	partner.Group("balance-payments", "/balance-payments").
		POST("", h.Clients.AddBalancePayment).
		POST("/:id/cancel", h.Clients.CancelBalancePayment).
		DELETE("/:id", h.Clients.DeleteBalancePayment)
	partner.Group("credit-payments", "/credit-payments").
		POST("", h.Clients.AddCreditPayment).
		POST("/:id/cancel", h.Clients.CancelCreditPayment).
		DELETE("/:id", h.Clients.DeleteCreditPayment)

	currency := NewDomainGroup("currency", "/currencies").
		POST("", h.Currencies.Create).
		GET("", h.Currencies.List).
		GET("/:id", h.Currencies.Get).
		PUT("/:id/rate", h.Currencies.UpdateRate).
		GET("/:id/rates", h.Currencies.ListRates)

	catalog := NewDomainGroup("catalog", "/products").
		POST("", h.Products.Create).
		GET("/:id", h.Products.Get).
		GET("/:id/movements", h.Products.ListMovements)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []*DomainGroup{trade, partner, currency, catalog, system}
}
