// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventa/internal/domain/items"
	"inventa/internal/domain/orders"
	"inventa/internal/domain/reports"
	"inventa/internal/domain/suppliers"
	"inventa/internal/infrastructure/http/v1/handlers"
	"inventa/internal/infrastructure/http/v1/middleware"
	"inventa/internal/infrastructure/storage/postgres"
	"inventa/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is used by health checks
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	Items     *items.Service
	Orders    *orders.Service
	Suppliers *suppliers.Service
	Reports   *reports.Service

	// Audit serves the per-entity change trail
	Audit *postgres.AuditStore
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
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

	base := handlers.NewBaseHandler()
	itemsHandler := handlers.NewItemsHandler(base, cfg.Items)
	ordersHandler := handlers.NewOrdersHandler(base, cfg.Orders)
	suppliersHandler := handlers.NewSuppliersHandler(base, cfg.Suppliers)
	reportsHandler := handlers.NewReportsHandler(base, cfg.Reports)

	v1 := router.Group("/api/v1")
	{
		itemRoutes := v1.Group("/items")
		{
			itemRoutes.GET("", itemsHandler.List)
			itemRoutes.POST("", itemsHandler.Create)
			itemRoutes.GET("/:itemId", itemsHandler.Get)
			itemRoutes.PUT("/:itemId/quantity", itemsHandler.SetQuantity)
			itemRoutes.DELETE("/:itemId", itemsHandler.Delete)
		}

		orderRoutes := v1.Group("/orders")
		{
			orderRoutes.GET("", ordersHandler.List)
			orderRoutes.POST("", ordersHandler.Create)
			orderRoutes.GET("/:orderId", ordersHandler.Get)
			orderRoutes.PUT("/:orderId/cancel", ordersHandler.Cancel)
		}

		supplierRoutes := v1.Group("/suppliers")
		{
			supplierRoutes.GET("", suppliersHandler.List)
			supplierRoutes.POST("", suppliersHandler.Create)
			supplierRoutes.DELETE("/:supplierId", suppliersHandler.Delete)
		}

		reportRoutes := v1.Group("/reports")
		{
			reportRoutes.GET("/stock-levels", reportsHandler.StockLevels)
			reportRoutes.GET("/order-status", reportsHandler.OrderStatus)
		}

		if cfg.Audit != nil {
			auditHandler := handlers.NewAuditHandler(base, cfg.Audit)
			v1.GET("/audit/:entityType/:entityId", auditHandler.History)
		}
	}

	return router
}
