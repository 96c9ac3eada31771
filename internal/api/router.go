package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/teatree/storefront-api/docs"
	"github.com/teatree/storefront-api/internal/api/handler"
	"github.com/teatree/storefront-api/internal/api/middleware"
	"github.com/teatree/storefront-api/internal/core/ports"
	"github.com/teatree/storefront-api/internal/pkg/config"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Tokens     ports.TokenService
	Identities ports.IdentityService
	Orders     ports.OrderService
	Payments   ports.PaymentService
	Catalog    ports.CatalogService
	// Probes are checked by the readiness endpoint, keyed by dependency name.
	Probes        map[string]handler.Pinger
	PaymentIntent config.RateLimitConfig
	Logger        zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(deps.Registry)))

	auth := middleware.Auth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)
	adminOnly := middleware.RequireAdmin(deps.Identities)

	healthHandler := handler.NewHealthHandler(deps.Probes)
	identityHandler := handler.NewIdentityHandler(deps.Identities, deps.Tokens)
	orderHandler := handler.NewOrderHandler(deps.Orders, deps.Identities)
	paymentHandler := handler.NewPaymentHandler(deps.Payments, deps.Orders, deps.Identities)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)

	// --- Banners, probes and docs (no auth required) ---
	e.GET("/", healthHandler.Welcome)
	e.GET("/test", healthHandler.Test)
	e.GET("/health", healthHandler.Liveness)        // liveness
	e.GET("/health/ready", healthHandler.Readiness) // readiness: Mongo and Redis
	e.GET("/metrics", promHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Identities ---
	e.GET("/user", identityHandler.List, auth, adminOnly)
	e.GET("/user/:email", identityHandler.Get, auth)
	e.PUT("/user/admin/:email", identityHandler.Promote, auth, adminOnly)
	e.PUT("/user/:email", identityHandler.Upsert)
	e.GET("/admin/:email", identityHandler.AdminStatus)
	e.DELETE("/session", identityHandler.Logout, auth)

	// --- Catalog ---
	e.GET("/products", catalogHandler.ListProducts)
	e.GET("/products/:id", catalogHandler.GetProduct)
	e.POST("/products", catalogHandler.CreateProduct, auth)
	e.GET("/reviews", catalogHandler.ListReviews)
	e.POST("/reviews", catalogHandler.CreateReview)
	e.DELETE("/reviews/:id", catalogHandler.DeleteReview)

	// --- Orders ---
	e.POST("/purchase", orderHandler.Create, optionalAuth)
	e.GET("/purchase", orderHandler.ListMine, auth)
	e.DELETE("/purchase", orderHandler.DeleteByEmail, auth)
	e.GET("/purchase/:id", orderHandler.Get, auth)
	e.DELETE("/purchase/:id", orderHandler.Delete, auth)
	e.PATCH("/purchase/:id", paymentHandler.Confirm, auth)
	e.GET("/allOrder", orderHandler.ListAll, auth, adminOnly)

	// --- Payments ---
	e.POST("/create-payment-intent", paymentHandler.CreateIntent,
		auth,
		middleware.PerIdentityRateLimit(deps.PaymentIntent.Rate, deps.PaymentIntent.Burst),
	)

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "storefront"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func promHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
