package router

import (
	"github.com/gin-gonic/gin"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/opsdesk/backend/internal/infrastructure/logger"
	"github.com/opsdesk/backend/internal/infrastructure/persistence"
	"github.com/opsdesk/backend/internal/interfaces/http/handler"
	"github.com/opsdesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Config holds the dependencies the router wires together
type Config struct {
	Logger       *zap.Logger
	Database     *persistence.Database
	Ledger       *appinventory.LedgerService
	Receipts     *appinventory.ReceiptService
	Transfers    *appinventory.TransferService
	Availability *appinventory.AvailabilityService
	Version      string
	CORS         middleware.CORSConfig
}

// New builds the gin engine with all routes and middleware
func New(cfg Config) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.CORS))

	systemHandler := handler.NewSystemHandler(cfg.Database, cfg.Version)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	ledgerHandler := handler.NewLedgerHandler(cfg.Ledger)
	receiptHandler := handler.NewReceiptHandler(cfg.Receipts)
	transferHandler := handler.NewTransferHandler(cfg.Transfers)
	availabilityHandler := handler.NewAvailabilityHandler(cfg.Availability)

	v1 := engine.Group("/api/v1")
	{
		stock := v1.Group("/stock")
		{
			stock.GET("", ledgerHandler.GetStock)
			stock.POST("/adjust", ledgerHandler.AdjustStock)
			stock.GET("/movements", ledgerHandler.ListMovements)
			stock.GET("/items/:id/aggregate", ledgerHandler.GetAggregate)
			stock.GET("/items/:id/at", ledgerHandler.GetStockAt)
		}

		receipts := v1.Group("/receipts")
		{
			receipts.POST("", receiptHandler.Create)
			receipts.GET("", receiptHandler.List)
			receipts.GET("/:id", receiptHandler.Get)
			receipts.DELETE("/:id", receiptHandler.Delete)
			receipts.PUT("/:id/lines", receiptHandler.UpdateLines)
			receipts.PUT("/:id/invoice", receiptHandler.SetInvoiceRef)
			receipts.POST("/:id/transition", receiptHandler.Transition)
			receipts.GET("/:id/transitions", receiptHandler.GetTransitions)
			receipts.POST("/:id/approve-differences", receiptHandler.ApproveDifferences)
			receipts.POST("/:id/stock", receiptHandler.TransferToStock)
		}

		transfers := v1.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
			transfers.GET("", transferHandler.List)
			transfers.GET("/:id", transferHandler.Get)
			transfers.PUT("/:id", transferHandler.Update)
			transfers.DELETE("/:id", transferHandler.Delete)
			transfers.POST("/:id/execute", transferHandler.Execute)
		}

		items := v1.Group("/items")
		{
			items.GET("/:id/availability", availabilityHandler.GetAvailability)
			items.GET("/:id/recipe", availabilityHandler.GetRecipe)
			items.PUT("/:id/recipe/components", availabilityHandler.SetComponent)
		}
	}

	return engine
}
