package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inventoryapp "github.com/atlas-erp/backend/internal/application/inventory"
	tradeapp "github.com/atlas-erp/backend/internal/application/trade"
	"github.com/atlas-erp/backend/internal/infrastructure/config"
	"github.com/atlas-erp/backend/internal/infrastructure/event"
	"github.com/atlas-erp/backend/internal/infrastructure/logger"
	"github.com/atlas-erp/backend/internal/infrastructure/persistence"
	"github.com/atlas-erp/backend/internal/interfaces/http/handler"
	"github.com/atlas-erp/backend/internal/interfaces/http/middleware"
	"github.com/atlas-erp/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	levelRepo := persistence.NewGormInventoryLevelRepository(db.DB)
	transactionRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	transferRepo := persistence.NewGormStockTransferRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	inventoryService := inventoryapp.NewInventoryService(
		levelRepo, transactionRepo, transferRepo, adjustmentRepo, txScope, log)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, txScope, log)
	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	if err := eventBus.Start(busCtx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("failed to stop event bus", zap.Error(err))
		}
	}()

	eventBus.Subscribe(inventoryapp.NewLowStockAlertHandler(log))

	inventoryService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)
	salesOrderService.SetEventPublisher(eventBus)

	// HTTP handlers
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService, inventoryService)
	systemHandler := handler.NewSystemHandler(db.Ping)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(),
	)

	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(inventoryHandler)
	r.Register(purchaseOrderHandler)
	r.Register(salesOrderHandler)
	r.Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// healthHandler reports liveness of the process and its database connection.
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "ok",
		})
	}
}
