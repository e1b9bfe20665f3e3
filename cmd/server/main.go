package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/stockpilot/backend/internal/application/catalog"
	inventoryapp "github.com/stockpilot/backend/internal/application/inventory"
	ordersapp "github.com/stockpilot/backend/internal/application/orders"
	"github.com/stockpilot/backend/internal/application/planning"
	"github.com/stockpilot/backend/internal/infrastructure/cache"
	"github.com/stockpilot/backend/internal/infrastructure/config"
	"github.com/stockpilot/backend/internal/infrastructure/event"
	"github.com/stockpilot/backend/internal/infrastructure/logger"
	"github.com/stockpilot/backend/internal/infrastructure/persistence"
	"github.com/stockpilot/backend/internal/interfaces/http/handler"
	"github.com/stockpilot/backend/internal/interfaces/http/middleware"
	"github.com/stockpilot/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Stockpilot",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	configRepo := persistence.NewGormProductConfigRepository(db.DB)
	goodRepo := persistence.NewGormFinishedGoodRepository(db.DB)
	materialRepo := persistence.NewGormRawMaterialRepository(db.DB)
	tagEventRepo := persistence.NewGormTagEventRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	ledgerService := inventoryapp.NewStockLedgerService(txScope, eventBus, log)
	orderService := ordersapp.NewOrderService(orderRepo, configRepo, eventBus, log)
	catalogService := catalogapp.NewCatalogService(configRepo, goodRepo, materialRepo, orderRepo, eventBus, log)
	recalcService := planning.NewRecalculationService(goodRepo, materialRepo, configRepo, orderRepo, log)

	// Recalculation pipeline: domain events mark configurations dirty, the
	// worker drains the set and recomputes requirements.
	dirty := planning.NewDirtySet()
	trigger := planning.NewTriggerHandler(dirty, goodRepo, log)
	eventBus.Subscribe(trigger, trigger.EventTypes()...)
	log.Info("Recalculation trigger registered", zap.Strings("events", trigger.EventTypes()))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	workerCfg := planning.WorkerConfig{
		InitialBackoff: cfg.Recalc.InitialBackoff,
		MaxBackoff:     cfg.Recalc.MaxBackoff,
		MaxElapsed:     cfg.Recalc.MaxElapsed,
	}
	worker := planning.NewWorker(recalcService, dirty, workerCfg, log)
	worker.Start(context.Background())
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := worker.Stop(stopCtx); err != nil {
			log.Error("Error stopping recalculation worker", zap.Error(err))
		}
	}()

	// A full requirement pass repairs any drift the event triggers missed
	if cfg.Recalc.FullReconcileEnabled {
		reconcileDone := make(chan struct{})
		defer close(reconcileDone)
		go func() {
			ticker := time.NewTicker(cfg.Recalc.FullReconcileInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					dirty.MarkFull()
				case <-reconcileDone:
					return
				}
			}
		}()
		log.Info("Full reconcile enabled", zap.Duration("interval", cfg.Recalc.FullReconcileInterval))
	}

	// Snapshot cache for the report endpoints, Redis with in-memory fallback
	cacheFactory := cache.NewSnapshotCacheFactory(cfg.Redis, cache.WithLogger(log))
	snapshots, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize snapshot cache", zap.Error(err))
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			log.Error("Error closing snapshot cache", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Stock:         handler.NewStockHandler(ledgerService),
		Orders:        handler.NewOrderHandler(orderService),
		ProductConfig: handler.NewProductConfigHandler(catalogService),
		Inventory:     handler.NewInventoryHandler(catalogService, goodRepo, tagEventRepo),
		Reports:       handler.NewReportHandler(goodRepo, materialRepo, configRepo, snapshots, cfg.Redis.CacheTTL, log),
		Recalculation: handler.NewRecalculationHandler(dirty, orderRepo),
		System:        handler.NewSystemHandler(db),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health probes stay outside API versioning
	router.RegisterSystemRoutes(engine, handlers.System)

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPIRoutes(r, handlers)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
