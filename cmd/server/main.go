package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appinventory "github.com/opsdesk/backend/internal/application/inventory"
	"github.com/opsdesk/backend/internal/infrastructure/cache"
	"github.com/opsdesk/backend/internal/infrastructure/config"
	"github.com/opsdesk/backend/internal/infrastructure/logger"
	"github.com/opsdesk/backend/internal/infrastructure/persistence"
	"github.com/opsdesk/backend/internal/interfaces/http/middleware"
	"github.com/opsdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting opsdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories for reads outside a transaction; writes go through the scope
	itemRepo := persistence.NewGormItemRepository(db.DB)
	stockRecordRepo := persistence.NewGormStockRecordRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	receiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeComponentRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)

	ledgerService := appinventory.NewLedgerService(scope, itemRepo, stockRecordRepo, movementRepo, log)
	receiptService := appinventory.NewReceiptService(scope, receiptRepo, itemRepo, log)
	transferService := appinventory.NewTransferService(scope, transferRepo, log)
	availabilityService := appinventory.NewAvailabilityService(itemRepo, recipeRepo, log)

	if cfg.Cache.Enabled {
		// Without a Redis host the cache degrades to process memory,
		// which is enough for single-instance deployments
		aggregateCache, err := cache.NewAggregateCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.TTL, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		if redisCache, ok := aggregateCache.(*cache.RedisAggregateCache); ok {
			defer func() {
				_ = redisCache.Close()
			}()
		}

		backend := "redis"
		if cfg.Redis.Addr() == "" {
			backend = "memory"
		}

		ledgerService.SetAggregateCache(aggregateCache)
		receiptService.SetAggregateCache(aggregateCache)
		transferService.SetAggregateCache(aggregateCache)
		log.Info("Aggregate stock cache enabled",
			zap.String("backend", backend),
			zap.Duration("ttl", cfg.Cache.TTL))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Config{
		Logger:       log,
		Database:     db,
		Ledger:       ledgerService,
		Receipts:     receiptService,
		Transfers:    transferService,
		Availability: availabilityService,
		Version:      version,
		CORS:         middleware.DefaultCORSConfig(),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
