// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"tally/internal/core/security"
	"tally/internal/domain/auth"
	"tally/internal/domain/catalog"
	"tally/internal/domain/expense"
	"tally/internal/domain/ledger"
	"tally/internal/domain/profit"
	"tally/internal/domain/sales"
	"tally/internal/infrastructure/http/v1/handlers"
	"tally/internal/infrastructure/http/v1/middleware"
	"tally/internal/infrastructure/storage/postgres"
	"tally/pkg/logger"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator
	AuthService  *auth.Service

	LedgerService  *ledger.Service
	Reporter       *ledger.Reporter
	CatalogService *catalog.Service
	SalesService   *sales.Service
	Aggregator     *sales.Aggregator
	ExpenseService *expense.Service
	ProfitService  *profit.Service

	Flags security.FeatureFlagProvider
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware; order matters.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(cfg.AuthService)
		apiV1.POST("/auth/login", authHandler.Login)

		// Tenant resolution runs before auth so the token's tenant can be
		// checked against the request's.
		protected := apiV1.Group("")
		protected.Use(middleware.Tenant())
		protected.Use(middleware.Auth(cfg.JWTValidator))

		ledgerHandler := handlers.NewLedgerHandler(cfg.LedgerService, cfg.Reporter, cfg.Flags, cfg.Audit)
		movements := protected.Group("/movements")
		{
			movements.POST("", ledgerHandler.Record)
			movements.POST("/forced", ledgerHandler.Forced)
			movements.GET("", ledgerHandler.List)
			movements.GET("/consolidated", ledgerHandler.Consolidated)
			movements.GET("/last", ledgerHandler.Last)
			movements.GET("/report", ledgerHandler.Report)
			movements.GET("/statistics", ledgerHandler.Statistics)
			movements.GET("/:id", ledgerHandler.Get)
			movements.GET("/:id/audit", ledgerHandler.AuditHistory)
		}

		catalogHandler := handlers.NewCatalogHandler(cfg.CatalogService, cfg.LedgerService)
		items := protected.Group("/items")
		{
			items.POST("", catalogHandler.Create)
			items.GET("", catalogHandler.List)
			items.GET("/:id", catalogHandler.Get)
			items.PATCH("/:id", catalogHandler.Update)
			items.DELETE("/:id", catalogHandler.Delete)
		}
		stock := protected.Group("/stock")
		{
			stock.GET("/:itemId", catalogHandler.Stock)
			stock.GET("/:itemId/check", catalogHandler.StockCheck)
		}

		salesHandler := handlers.NewSalesHandler(cfg.SalesService, cfg.Aggregator)
		salesGroup := protected.Group("/sales")
		{
			salesGroup.POST("", salesHandler.Create)
			salesGroup.GET("", salesHandler.List)
			salesGroup.GET("/revenue", salesHandler.Revenue)
			salesGroup.GET("/:id", salesHandler.Get)
			salesGroup.DELETE("/:id", salesHandler.Delete)
		}

		expenseHandler := handlers.NewExpenseHandler(cfg.ExpenseService)
		expenses := protected.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		profitHandler := handlers.NewProfitHandler(cfg.ProfitService)
		protected.GET("/profit/distribution", profitHandler.Distribution)
	}

	return router
}
