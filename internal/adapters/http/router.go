// Package http - router configuration for the REST API.
//
// The router wires every handler and middleware into a single entry
// point.
//
// Pattern: Composition Root
// - Every dependency is assembled here
// - Handlers receive only the use cases they need
// - Middleware is applied to the route groups it belongs to
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaultcoin/ledgercore/internal/adapters/http/common"
	"github.com/vaultcoin/ledgercore/internal/adapters/http/handlers"
	"github.com/vaultcoin/ledgercore/internal/adapters/http/middleware"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig configures the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	Version            string
	BuildTime          string
	Environment        string
	AllowedOrigins     []string
	AuthTokenValidator func(token string) (*middleware.AuthClaims, error)
}

// DefaultRouterConfig returns development defaults.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:             slog.Default(),
		Version:            "dev",
		BuildTime:          "unknown",
		Environment:        "development",
		AllowedOrigins:     []string{"*"},
		AuthTokenValidator: middleware.MockTokenValidator,
	}
}

// ============================================
// Use Case Providers
// ============================================

// LedgerUseCases provides the write-side ledger use cases.
type LedgerUseCases struct {
	TopUp handlers.TopUpUseCase
	Bonus handlers.BonusUseCase
	Spend handlers.SpendUseCase
}

// QueryUseCases provides the read-only Query Surface use cases.
type QueryUseCases struct {
	AssetTypes   handlers.GetAssetTypeUseCase
	Balances     handlers.GetBalanceUseCase
	Transactions handlers.ListTransactionsUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder builds a configured router.
//
// Pattern: Builder
// - Lets the router be assembled step by step
// - Easier to test
// - Configuration pieces are reusable
type RouterBuilder struct {
	config  *RouterConfig
	ledger  *LedgerUseCases
	queries *QueryUseCases
}

// NewRouterBuilder creates a new builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{config: config}
}

// WithLedgerUseCases attaches the ledger use cases.
func (b *RouterBuilder) WithLedgerUseCases(useCases *LedgerUseCases) *RouterBuilder {
	b.ledger = useCases
	return b
}

// WithQueryUseCases attaches the Query Surface use cases.
func (b *RouterBuilder) WithQueryUseCases(useCases *QueryUseCases) *RouterBuilder {
	b.queries = useCases
	return b
}

// Build assembles a configured Gin Engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	// 1. Recovery must run first.
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	// 2. Request ID
	router.Use(middleware.RequestID())

	// 3. CORS
	if b.config.Environment == "production" {
		router.Use(middleware.CORS(middleware.ProductionCORSConfig(b.config.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	// 4. Logging
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))

	// 5. Rate limiting (global)
	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// 6. Metrics (Prometheus)
	router.Use(middleware.Metrics())

	// ============================================
	// Metrics Endpoint (no auth)
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============================================
	// Health Check Routes (no auth)
	// ============================================

	healthHandler := handlers.NewHealthHandler(b.config.Pool, b.config.Version, b.config.BuildTime)
	healthHandler.RegisterRoutes(router)

	// ============================================
	// API v1 Routes
	// ============================================

	v1 := router.Group("/api/v1")

	// Every ledger and query route requires a bearer token: this is a
	// service-to-service API, there is no public/unauthenticated surface.
	protectedGroup := v1.Group("")
	protectedGroup.Use(middleware.Auth(&middleware.AuthConfig{
		TokenValidator: b.config.AuthTokenValidator,
		SkipPaths:      []string{},
	}))
	{
		if b.ledger != nil {
			ledgerHandler := handlers.NewLedgerHandler(b.ledger.TopUp, b.ledger.Bonus, b.ledger.Spend)
			ledger := protectedGroup.Group("/ledger")
			// Stricter rate limiting: these routes mutate balances.
			ledger.Use(middleware.TransactionRateLimit())
			{
				ledger.POST("/top-up", ledgerHandler.TopUp)
				ledger.POST("/bonus", ledgerHandler.Bonus)
				ledger.POST("/spend", ledgerHandler.Spend)
			}
		}

		if b.queries != nil {
			queryHandler := handlers.NewQueryHandler(b.queries.AssetTypes, b.queries.Balances, b.queries.Transactions)
			protectedGroup.GET("/asset-types/:identifier", queryHandler.GetAssetType)
			protectedGroup.GET("/balances", queryHandler.GetBalance)
			protectedGroup.GET("/transactions", queryHandler.ListTransactions)
		}
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, 404, &common.APIError{
			Code:    common.ErrCodeNotFound,
			Message: "endpoint not found",
			Details: map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			},
		})
	})

	return router
}

// ============================================
// Quick Setup Functions
// ============================================

// NewRouter builds a router from config (for simple callers).
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}

// NewDevelopmentRouter builds a router for the development environment.
func NewDevelopmentRouter() *gin.Engine {
	config := DefaultRouterConfig()
	config.Environment = "development"
	return NewRouter(config)
}

// NewProductionRouter builds a router for the production environment.
func NewProductionRouter(pool *pgxpool.Pool, version string, allowedOrigins []string) *gin.Engine {
	config := &RouterConfig{
		Logger:         slog.Default(),
		Pool:           pool,
		Version:        version,
		Environment:    "production",
		AllowedOrigins: allowedOrigins,
		// A real token validator must be set before serving traffic.
		AuthTokenValidator: nil,
	}
	return NewRouter(config)
}
