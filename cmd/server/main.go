// Package main is the entry point for the Inventa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inventa/internal/domain/items"
	"inventa/internal/domain/ledger"
	"inventa/internal/domain/orders"
	"inventa/internal/domain/posting"
	"inventa/internal/domain/reports"
	"inventa/internal/domain/suppliers"
	v1 "inventa/internal/infrastructure/http/v1"
	"inventa/internal/infrastructure/storage/postgres"
	"inventa/pkg/logger"
)

func main() {
	// .env is optional, real deployments pass environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting inventa server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
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

	// --- Repositories ---
	ledgerRepo := postgres.NewLedgerRepo(txManager)
	itemRepo := postgres.NewItemRepo(txManager)
	supplierRepo := postgres.NewSupplierRepo(txManager)
	orderRepo := postgres.NewOrderRepo(txManager)
	reportRepo := postgres.NewReportRepo(txManager)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to create audit store", "error", err)
	}

	// --- Domain services ---
	ledgerService := ledger.NewService(ledgerRepo, txManager)
	engine := posting.NewEngine(ledgerService)

	itemsService := items.NewService(itemRepo, ledgerService, txManager, auditStore)
	ordersService := orders.NewService(orderRepo, engine, txManager, auditStore)
	suppliersService := suppliers.NewService(supplierRepo, txManager)
	reportsService := reports.NewService(reportRepo, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool,
		Logger:    log,
		Items:     itemsService,
		Orders:    ordersService,
		Suppliers: suppliersService,
		Reports:   reportsService,
		Audit:     auditStore,
	})

	// --- HTTP Server ---
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

	// Give outstanding requests 30 seconds to complete
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
