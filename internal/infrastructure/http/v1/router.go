// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pharmapos/internal/domain/auth"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/domain/catalogs/supplier"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/domain/company"
	"pharmapos/internal/domain/inventory"
	"pharmapos/internal/domain/ledger"
	"pharmapos/internal/domain/purchasing"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/http/v1/handlers"
	"pharmapos/internal/infrastructure/http/v1/middleware"
	"pharmapos/internal/infrastructure/storage/postgres"
	"pharmapos/internal/infrastructure/storage/postgres/catalog_repo"
	"pharmapos/internal/infrastructure/storage/postgres/document_repo"
	"pharmapos/internal/infrastructure/storage/postgres/ledger_repo"
	"pharmapos/pkg/logger"
	"pharmapos/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWT issues and validates access tokens
	JWT *auth.JWTService

	// Audit records entity change history (optional)
	Audit *postgres.AuditService
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

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories share the injected transaction manager.
	num := numerator.New(postgres.NewNumeratorQuerier(cfg.TxManager))

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	userRepo := catalog_repo.NewUserRepo(cfg.TxManager)
	companyRepo := catalog_repo.NewCompanyRepo(cfg.TxManager)
	transactionRepo := document_repo.NewTransactionRepo(cfg.TxManager)
	purchaseOrderRepo := document_repo.NewPurchaseOrderRepo(cfg.TxManager)
	ledgerRepo := ledger_repo.NewLedgerRepo(cfg.TxManager)

	productService := product.NewService(productRepo, num, cfg.TxManager)
	supplierService := supplier.NewService(supplierRepo, num)
	userService := user.NewService(userRepo, num)
	companyService := company.NewService(companyRepo, cfg.TxManager)
	ledgerService := ledger.NewService(ledgerRepo)
	salesService := sales.NewService(transactionRepo, productRepo, userService, ledgerService, companyService, cfg.TxManager)
	purchasingService := purchasing.NewService(purchaseOrderRepo, productRepo, supplierRepo, userService, ledgerService, num, cfg.TxManager)
	inventoryService := inventory.NewService(productRepo, userService, ledgerService, cfg.TxManager)
	authService := auth.NewService(userService, cfg.JWT)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	userHandler := handlers.NewUserHandler(userService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	transactionHandler := handlers.NewTransactionHandler(salesService, cfg.Audit)
	purchaseOrderHandler := handlers.NewPurchaseOrderHandler(purchasingService, cfg.Audit)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, cfg.Audit)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)

	adminOnly := middleware.RequireRole(string(user.RoleAdmin))
	stockKeepers := middleware.RequireRole(string(user.RoleAdmin), string(user.RolePharmacist))

	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		v1.POST("/auth/login", authHandler.Login)

		// Everything else requires a valid token
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWT))

		products := protected.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.GET("/:id/ledger", ledgerHandler.ListByProduct)
			products.GET("/sku/:sku", productHandler.GetBySKU)
			products.GET("/barcode/:barcode", productHandler.GetByBarcode)
			products.POST("", stockKeepers, productHandler.Create)
			products.PUT("/:id", stockKeepers, productHandler.Update)
			products.DELETE("/:id", stockKeepers, productHandler.Delete)
		}

		suppliers := protected.Group("/suppliers")
		{
			suppliers.GET("", supplierHandler.List)
			suppliers.GET("/:id", supplierHandler.Get)
			suppliers.POST("", stockKeepers, supplierHandler.Create)
			suppliers.PUT("/:id", stockKeepers, supplierHandler.Update)
			suppliers.DELETE("/:id", stockKeepers, supplierHandler.Delete)
		}

		users := protected.Group("/users", adminOnly)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.POST("", userHandler.Create)
			users.PUT("/:id", userHandler.Update)
			users.PUT("/:id/password", userHandler.ChangePassword)
			users.DELETE("/:id", userHandler.Delete)
		}

		companyGroup := protected.Group("/company")
		{
			companyGroup.GET("", companyHandler.Get)
			companyGroup.PUT("", adminOnly, companyHandler.Update)
		}

		transactions := protected.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.GET("/:id/receipt", transactionHandler.GetReceipt)
			transactions.POST("", transactionHandler.Checkout)
			transactions.POST("/:id/refund", stockKeepers, transactionHandler.Refund)
		}

		purchaseOrders := protected.Group("/purchase-orders", stockKeepers)
		{
			purchaseOrders.GET("", purchaseOrderHandler.List)
			purchaseOrders.GET("/:id", purchaseOrderHandler.Get)
			purchaseOrders.POST("", purchaseOrderHandler.Create)
			purchaseOrders.PUT("/:id", purchaseOrderHandler.Update)
			purchaseOrders.POST("/:id/receive", purchaseOrderHandler.Receive)
			purchaseOrders.POST("/:id/cancel", purchaseOrderHandler.Cancel)
			purchaseOrders.DELETE("/:id", purchaseOrderHandler.Delete)
		}

		inventoryGroup := protected.Group("/inventory", stockKeepers)
		{
			inventoryGroup.POST("/adjust", inventoryHandler.Adjust)
			inventoryGroup.POST("/dispose", inventoryHandler.Dispose)
		}

		ledgerGroup := protected.Group("/ledger")
		{
			ledgerGroup.GET("", ledgerHandler.List)
		}

		if cfg.Audit != nil {
			auditHandler := handlers.NewAuditHandler(cfg.Audit)
			protected.GET("/audit/:entityType/:id", adminOnly, auditHandler.EntityHistory)
		}
	}

	return router
}
