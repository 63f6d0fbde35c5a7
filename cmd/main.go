package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"warehouse/internal/caching"
	"warehouse/internal/config"
	"warehouse/internal/handlers"
	"warehouse/internal/jobs"
	"warehouse/internal/middleware"
	"warehouse/internal/repositories"
	"warehouse/internal/services"
	"warehouse/pkg/database"
	"warehouse/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	log.Info("database connected")

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Warn("JWT_SECRET not set, using generated secret for development")
	}

	// Cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cacheSvc.Ping(ctx); err != nil {
		log.Warn("redis unavailable, caching degraded", zap.Error(err))
	}

	// Object storage for report exports
	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	itemRepo := repositories.NewItemRepo(pool)
	variantRepo := repositories.NewVariantRepo(pool)
	saleRepo := repositories.NewSaleRepo(pool)

	// Services
	itemSvc := services.NewItemService(itemRepo, cacheSvc, log)
	variantSvc := services.NewVariantService(pool, variantRepo, itemRepo, cacheSvc, log)
	saleSvc := services.NewSaleService(pool, saleRepo, variantRepo, cacheSvc, log)
	reportSvc := services.NewReportService(saleRepo, storage, cfg.Minio.ReportBucket, log)

	// Handlers
	itemHandlers := handlers.NewItemHandlers(itemSvc)
	variantHandlers := handlers.NewVariantHandlers(variantSvc)
	saleHandlers := handlers.NewSaleHandlers(saleSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	lowStock := jobs.NewLowStockMonitor(variantRepo, cfg.Jobs.LowStockThreshold, log)
	scheduler, err := jobs.NewScheduler(lowStock, reportSvc, log)
	if err != nil {
		log.Fatal("failed to create job scheduler", zap.Error(err))
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health/live", healthHandlers.Liveness)
	e.GET("/health/ready", healthHandlers.Readiness)

	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(middleware.OperatorClaims)
		},
		SuccessHandler: middleware.StoreOperator,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}))

	// Item routes
	v1.GET("/items", itemHandlers.ListItems)
	v1.POST("/items", itemHandlers.CreateItem)
	v1.GET("/items/:id", itemHandlers.GetItem)
	v1.PUT("/items/:id", itemHandlers.UpdateItem)
	v1.DELETE("/items/:id", itemHandlers.DeleteItem)

	// Variant routes
	v1.GET("/items/:itemId/variants", variantHandlers.ListVariants)
	v1.POST("/items/:itemId/variants", variantHandlers.CreateVariant)
	v1.GET("/variants/:id", variantHandlers.GetVariant)
	v1.PUT("/variants/:id", variantHandlers.UpdateVariant)
	v1.DELETE("/variants/:id", variantHandlers.DeleteVariant)
	v1.POST("/variants/:id/stock-adjustments", variantHandlers.AdjustStock)

	// Sale routes
	v1.GET("/sales", saleHandlers.ListSales)
	v1.POST("/sales", saleHandlers.CreateSale)
	v1.GET("/sales/:id", saleHandlers.GetSale)

	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("version", version))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := scheduler.Stop(); err != nil {
		log.Error("scheduler shutdown failed", zap.Error(err))
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}
