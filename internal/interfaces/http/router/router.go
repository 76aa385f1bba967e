// Package router wires the middleware chain and the route table. Every
// route, pages and API alike, sits behind the authorization gate.
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	"github.com/stockpilot/backend/internal/infrastructure/config"
	"github.com/stockpilot/backend/internal/infrastructure/logger"
	"github.com/stockpilot/backend/internal/interfaces/http/handler"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups the route handlers the router mounts
type Handlers struct {
	Auth          *handler.AuthHandler
	Dashboard     *handler.DashboardHandler
	Inventory     *handler.InventoryHandler
	Sales         *handler.SalesHandler
	Purchase      *handler.PurchaseHandler
	Users         *handler.UserHandler
	Notifications *handler.NotificationHandler
}

// GateConfigFromConfig builds the gate configuration from application
// configuration
func GateConfigFromConfig(cfg *config.Config, log *zap.Logger) middleware.GateConfig {
	gate := middleware.DefaultGateConfig()
	if cfg.HTTP.LoginPath != "" {
		gate.LoginPath = cfg.HTTP.LoginPath
	}
	if cfg.HTTP.LandingPath != "" {
		gate.LandingPath = cfg.HTTP.LandingPath
	}
	if cfg.Cookie.Name != "" {
		gate.CookieName = cfg.Cookie.Name
	}
	gate.CookieDomain = cfg.Cookie.Domain
	if cfg.Cookie.Path != "" {
		gate.CookiePath = cfg.Cookie.Path
	}
	gate.CookieSecure = cfg.Cookie.Secure
	gate.CookieSameSite = parseSameSite(cfg.Cookie.SameSite)
	gate.Logger = log
	return gate
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Setup builds the gin engine with the full middleware chain and routes
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	sessions *auth.SessionService,
	revoker auth.SessionRevoker,
	resolver middleware.ContextResolver,
	gate middleware.GateConfig,
	handlers Handlers,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidations()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Registered before the gate is mounted so probes need no session
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.Use(middleware.Gate(sessions, revoker, resolver, gate))

	api := engine.Group("/api/v1")
	{
		api.POST("/login", handlers.Auth.Login)
		api.POST("/logout", handlers.Auth.Logout)
		api.GET("/me", handlers.Auth.Me)

		api.GET("/dashboard", handlers.Dashboard.Summary)

		inv := api.Group("/inventory")
		{
			inv.GET("/products", handlers.Inventory.ListProducts)
			inv.POST("/products", handlers.Inventory.CreateProduct)
			inv.GET("/products/:id", handlers.Inventory.GetProduct)
			inv.PUT("/products/:id", handlers.Inventory.UpdateProduct)
			inv.GET("/warehouses", handlers.Inventory.ListWarehouses)
			inv.POST("/warehouses", handlers.Inventory.CreateWarehouse)
		}

		api.GET("/movements", handlers.Inventory.ListMovements)
		api.POST("/movements", handlers.Inventory.RecordMovement)

		api.GET("/sales", handlers.Sales.List)
		api.POST("/sales", handlers.Sales.Create)
		api.GET("/sales/:id", handlers.Sales.Get)
		api.POST("/sales/:id/confirm", handlers.Sales.Confirm)
		api.POST("/sales/:id/cancel", handlers.Sales.Cancel)

		api.GET("/purchases", handlers.Purchase.List)
		api.POST("/purchases", handlers.Purchase.Create)
		api.GET("/purchases/:id", handlers.Purchase.Get)
		api.POST("/purchases/:id/order", handlers.Purchase.MarkOrdered)
		api.POST("/purchases/:id/receive", handlers.Purchase.MarkReceived)

		api.GET("/users", handlers.Users.List)
		api.POST("/users", handlers.Users.Create)
		api.PUT("/users/:id/permissions", handlers.Users.SetPermission)
		api.POST("/users/:id/deactivate", handlers.Users.Deactivate)

		api.GET("/notifications", handlers.Notifications.List)
		api.POST("/notifications", handlers.Notifications.Publish)
		api.POST("/notifications/:id/read", handlers.Notifications.MarkRead)
	}

	return engine
}
