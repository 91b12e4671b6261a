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
	"github.com/shopspring/decimal"
	bookingapp "github.com/wms/backend/internal/application/booking"
	historyapp "github.com/wms/backend/internal/application/history"
	settingsapp "github.com/wms/backend/internal/application/settings"
	domainhistory "github.com/wms/backend/internal/domain/history"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/notify"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scale"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WMS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a zap-backed GORM logger
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
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected")

	// Redis carries the cross-instance inventory-updated channel
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

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = eventBus.Stop(context.Background())
	}()

	// Operator notices and the inventory bridge
	noticeHub := notify.NewHub(log)
	bridge := notify.NewInventoryBridge(redisClient, cfg.Booking.InventoryChannel, eventBus, log)
	defer func() {
		_ = bridge.Close()
	}()
	go func() {
		if err := bridge.Listen(ctx); err != nil && ctx.Err() == nil {
			log.Error("Inventory bridge stopped", zap.Error(err))
		}
	}()
	eventBus.Subscribe(notify.NewAnnounceHandler(bridge, log))

	// Repositories and external ports
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	bookingGateway := persistence.NewGormBookingGateway(db.DB)
	historyRepo := persistence.NewGormHistoryRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	tareRepo := persistence.NewGormBinTareRepository(db.DB)
	scaleDevice := scale.NewSimulated(scale.Config{
		SettleDelay: cfg.Scale.SettleDelay,
		GrossMinKg:  cfg.Scale.GrossMinKg,
		GrossMaxKg:  cfg.Scale.GrossMaxKg,
		TareMinKg:   cfg.Scale.TareMinKg,
		TareMaxKg:   cfg.Scale.TareMaxKg,
	}, log)

	// Application services
	sessionService := bookingapp.NewSessionService(bookingapp.SessionServiceConfig{
		Source:     stockItemRepo,
		Gateway:    bookingGateway,
		Scale:      scaleDevice,
		Tares:      tareRepo,
		Settings:   settingsRepo,
		Ledger:     domainhistory.NewLedger(),
		History:    historyRepo,
		Events:     eventBus,
		Notifier:   noticeHub,
		UnitWeight: decimal.NewFromFloat(cfg.Booking.UnitWeightKg),
		Logger:     log,
	})
	eventBus.Subscribe(bookingapp.NewInventoryRefreshHandler(sessionService, log))

	historyService := historyapp.NewService(historyRepo, log)
	settingsService := settingsapp.NewService(settingsRepo, cfg.Booking.DefaultTolerancePct, log)

	// HTTP engine and middleware
	middleware.SetupValidator()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", healthHandler(db))

	// Routes
	router.NewRouter(engine).
		Register(handler.NewSessionHandler(sessionService)).
		Register(handler.NewHistoryHandler(historyService)).
		Register(handler.NewSettingsHandler(settingsService)).
		Register(handler.NewTareHandler(tareRepo)).
		Register(handler.NewNoticeStreamHandler(noticeHub, handler.WithStreamLogger(log))).
		Register(handler.NewSystemHandler()).
		Setup()

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
