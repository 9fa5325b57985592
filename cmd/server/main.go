// Package main is the entry point for the tally API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tally/internal/core/security"
	"tally/internal/domain/auth"
	"tally/internal/domain/catalog"
	"tally/internal/domain/expense"
	"tally/internal/domain/ledger"
	"tally/internal/domain/profit"
	"tally/internal/domain/sales"
	v1 "tally/internal/infrastructure/http/v1"
	"tally/internal/infrastructure/storage/postgres"
	"tally/internal/infrastructure/storage/postgres/auth_repo"
	"tally/internal/infrastructure/storage/postgres/catalog_repo"
	"tally/internal/infrastructure/storage/postgres/expense_repo"
	"tally/internal/infrastructure/storage/postgres/ledger_repo"
	"tally/internal/infrastructure/storage/postgres/sales_repo"
	"tally/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting tally server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Repositories ---
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	saleRepo := sales_repo.NewSaleRepo(txManager)
	expenseRepo := expense_repo.NewExpenseRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// --- Domain services ---
	ledgerService := ledger.NewService(movementRepo, itemRepo, txManager, auditService)
	reporter := ledger.NewReporter(movementRepo, itemRepo)
	catalogService := catalog.NewService(itemRepo, movementRepo)
	salesService := sales.NewService(saleRepo, ledgerService, txManager)
	aggregator := sales.NewAggregator(saleRepo)
	expenseService := expense.NewService(expenseRepo)
	profitService := profit.NewService(aggregator, expenseService)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authService := auth.NewService(userRepo, jwtService)

	// --- Feature flags ---
	flags, err := security.NewRuleFlags()
	if err != nil {
		log.Fatalw("failed to create feature flags", "error", err)
	}
	flags.SetDefault(security.FlagAuditHistory, true)
	flags.SetDefault(security.FlagMovementStatistic, true)
	if rule := getEnv("FLAG_AUDIT_HISTORY_RULE", ""); rule != "" {
		if err := flags.SetRule(security.FlagAuditHistory, rule); err != nil {
			log.Fatalw("invalid audit history flag rule", "error", err)
		}
	}
	if rule := getEnv("FLAG_MOVEMENT_STATISTICS_RULE", ""); rule != "" {
		if err := flags.SetRule(security.FlagMovementStatistic, rule); err != nil {
			log.Fatalw("invalid movement statistics flag rule", "error", err)
		}
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		AuthService:    authService,
		LedgerService:  ledgerService,
		Reporter:       reporter,
		CatalogService: catalogService,
		SalesService:   salesService,
		Aggregator:     aggregator,
		ExpenseService: expenseService,
		ProfitService:  profitService,
		Flags:          flags,
		Audit:          auditService,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
