package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/resale/backoffice/internal/application/catalog"
	inventoryapp "github.com/resale/backoffice/internal/application/inventory"
	pricingapp "github.com/resale/backoffice/internal/application/pricing"
	purchaseapp "github.com/resale/backoffice/internal/application/purchase"
	receivingapp "github.com/resale/backoffice/internal/application/receiving"
	"github.com/resale/backoffice/internal/infrastructure/config"
	"github.com/resale/backoffice/internal/infrastructure/logger"
	"github.com/resale/backoffice/internal/infrastructure/persistence"
	"github.com/resale/backoffice/internal/infrastructure/pricefeed"
	"github.com/resale/backoffice/internal/interfaces/http/handler"
	"github.com/resale/backoffice/internal/interfaces/http/middleware"
	"github.com/resale/backoffice/internal/interfaces/http/router"
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

	log.Info("Starting backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis backs the price feed cache; the server still starts when it is
	// unreachable because every cache error degrades to a feed miss.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, price feed caching degraded", zap.Error(err))
	}

	// Initialize repositories
	sourceRepo := persistence.NewGormSourceRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receivingEventRepo := persistence.NewGormReceivingEventRepository(db.DB)
	inventoryItemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	inventoryEventRepo := persistence.NewGormInventoryEventRepository(db.DB)
	gradeRepo := persistence.NewGormConditionGradeRepository(db.DB)
	attributeFieldRepo := persistence.NewGormAttributeFieldRepository(db.DB)
	feeConfigRepo := persistence.NewGormFeeConfigRepository(db.DB)

	// Transaction scopes
	receivingScope := persistence.NewGormReceivingScope(db.DB)
	inventoryScope := persistence.NewGormInventoryScope(db.DB)

	// External price feed with Redis read-through cache
	feedClient := pricefeed.NewClient(&cfg.PriceFeed, log)
	feed := pricefeed.NewCachedFeed(feedClient, redisClient, cfg.PriceFeed.CacheTTL, log)

	// Initialize application services
	purchaseOrderService := purchaseapp.NewPurchaseOrderService(orderRepo, sourceRepo, variantRepo)
	receivingService := receivingapp.NewReceivingService(orderRepo, receivingEventRepo, receivingScope)
	inventoryService := inventoryapp.NewInventoryService(inventoryItemRepo, inventoryEventRepo, gradeRepo, inventoryScope)
	pricingService := pricingapp.NewPricingService(feeConfigRepo, variantRepo, productRepo, feed)
	catalogService := catalogapp.NewCatalogService(sourceRepo, productRepo, variantRepo, attributeFieldRepo)

	// Initialize HTTP handlers
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	receivingHandler := handler.NewReceivingHandler(receivingService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	calculatorHandler := handler.NewCalculatorHandler(pricingService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	healthHandler := handler.NewHealthHandler(db)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and request logging
	// can correlate, CORS last before routing.
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(purchaseOrderHandler).
		Register(receivingHandler).
		Register(inventoryHandler).
		Register(calculatorHandler).
		Register(catalogHandler).
		Register(healthHandler)
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
