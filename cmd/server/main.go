package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	appidentity "github.com/stockpilot/backend/internal/application/identity"
	appinventory "github.com/stockpilot/backend/internal/application/inventory"
	appnotification "github.com/stockpilot/backend/internal/application/notification"
	apppurchase "github.com/stockpilot/backend/internal/application/purchase"
	appsales "github.com/stockpilot/backend/internal/application/sales"
	"github.com/stockpilot/backend/internal/infrastructure/auth"
	"github.com/stockpilot/backend/internal/infrastructure/config"
	"github.com/stockpilot/backend/internal/infrastructure/logger"
	"github.com/stockpilot/backend/internal/infrastructure/persistence"
	"github.com/stockpilot/backend/internal/infrastructure/telemetry"
	"github.com/stockpilot/backend/internal/interfaces/http/handler"
	"github.com/stockpilot/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	sessions := auth.NewSessionService(cfg.Session)
	revoker := auth.NewRedisSessionRevoker(redisClient)

	profiles := persistence.NewGormProfileRepository(db.DB)
	products := persistence.NewGormProductRepository(db.DB)
	warehouses := persistence.NewGormWarehouseRepository(db.DB)
	movements := persistence.NewGormStockMovementRepository(db.DB)
	salesOrders := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrders := persistence.NewGormPurchaseOrderRepository(db.DB)
	notifications := persistence.NewGormNotificationRepository(db.DB)

	resolver := appidentity.NewContextResolver(profiles, log)
	authService := appidentity.NewAuthService(profiles, sessions, revoker, log)
	userService := appidentity.NewUserService(profiles, log)
	inventoryService := appinventory.NewService(products, warehouses, movements, log)
	salesService := appsales.NewService(salesOrders, products, persistence.NewGormSalesUnitOfWork(db), log)
	purchaseService := apppurchase.NewService(purchaseOrders, log)
	notificationService := appnotification.NewService(notifications, log)

	gateCfg := router.GateConfigFromConfig(cfg, log)

	engine := router.Setup(cfg, log, sessions, revoker, resolver, gateCfg, router.Handlers{
		Auth:          handler.NewAuthHandler(authService, gateCfg),
		Dashboard:     handler.NewDashboardHandler(inventoryService, salesService, notificationService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Sales:         handler.NewSalesHandler(salesService),
		Purchase:      handler.NewPurchaseHandler(purchaseService),
		Users:         handler.NewUserHandler(userService),
		Notifications: handler.NewNotificationHandler(notificationService),
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
		log.Info("Server starting",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}
