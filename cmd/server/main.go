package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/application/etl"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/infrastructure/cache"
	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/orderhub/backend/internal/infrastructure/logger"
	"github.com/orderhub/backend/internal/infrastructure/persistence"
	"github.com/orderhub/backend/internal/infrastructure/platforms"
	"github.com/orderhub/backend/internal/infrastructure/scheduler"
	"github.com/orderhub/backend/internal/interfaces/http/handler"
	"github.com/orderhub/backend/internal/interfaces/http/middleware"
	"github.com/orderhub/backend/internal/interfaces/http/router"
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
		_ = log.Sync()
	}()

	log.Info("Starting OrderHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection, routing GORM logs through zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
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
	keys := persistence.NewGormKeyAllocator(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB, keys)
	productRepo := persistence.NewGormProductRepository(db.DB, keys)
	statusRepo := persistence.NewGormStatusRepository(db.DB, keys)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderStatusRepo := persistence.NewGormOrderStatusRepository(db.DB)
	dimensionRepo := persistence.NewGormDimensionRepository(db.DB, keys)
	syncStateRepo := persistence.NewGormSyncStateRepository(db.DB)

	// Watermark store: Redis cache in front of the sync_states table,
	// falling back to in-memory when Redis is unreachable
	storeFactory := cache.NewWatermarkStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	watermarkCache, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create watermark store", zap.Error(err))
	}
	defer func() {
		if closer, ok := watermarkCache.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing watermark cache", zap.Error(err))
			}
		}
	}()
	watermarks := cache.NewLayeredWatermarkStore(watermarkCache, syncStateRepo, log)

	// Identity hashing and status canonicalization
	hasher := identity.NewHasher(cfg.Identity.PhoneSalt, cfg.Identity.EmailSalt, log)
	canonicalizer := etl.NewStatusCanonicalizer(statusRepo, log)

	// Platform API clients
	clients, err := buildPlatformClients(&cfg.Platforms)
	if err != nil {
		log.Fatal("Failed to configure platform clients", zap.Error(err))
	}
	registry := platforms.NewRegistry(clients...)
	log.Info("Platform clients configured", zap.Int("count", len(registry.List())))

	// One pipeline per registered platform, all driven by a single scheduler
	sched := scheduler.NewMultiPlatformScheduler(scheduler.Config{
		Parallel:               cfg.Sync.Parallel,
		HealthWindowSize:       cfg.Sync.HealthWindowSize,
		HealthMinSamples:       cfg.Sync.HealthMinSamples,
		HealthFailureThreshold: cfg.Sync.HealthFailureThreshold,
	}, log)

	etlConfig := etl.Config{
		PageSize:     cfg.Sync.PageSize,
		MaxPages:     cfg.Sync.MaxPages,
		RunTimeout:   cfg.Sync.RunTimeout,
		LookbackDays: cfg.Sync.LookbackDays,
	}
	stores := etl.Stores{
		Orders:        orderRepo,
		Customers:     customerRepo,
		Products:      productRepo,
		OrderStatuses: orderStatusRepo,
		Dimensions:    dimensionRepo,
		Watermarks:    watermarks,
	}
	for _, client := range registry.List() {
		pipeline := etl.NewPipeline(client, hasher, canonicalizer, stores, etlConfig, log)
		sched.Register(pipeline, true)
		log.Info("Pipeline registered", zap.String("platform", string(client.PlatformCode())))
	}

	// Timer-driven trigger for automatic sync cycles
	trigger := scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
		Interval: time.Duration(cfg.Sync.IntervalMinutes) * time.Minute,
	}, sched, log)
	if err := trigger.Start(context.Background()); err != nil {
		log.Fatal("Failed to start interval trigger", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := trigger.Stop(stopCtx); err != nil {
			log.Error("Error stopping interval trigger", zap.Error(err))
		}
	}()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSyncHandler(sched))
	r.Register(handler.NewSystemHandler(db))
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

// buildPlatformClients constructs an adapter for every enabled platform.
// Disabled platforms are skipped, not errors; a platform enabled with
// incomplete credentials fails startup.
func buildPlatformClients(cfg *config.PlatformsConfig) ([]integration.PlatformClient, error) {
	clients := make([]integration.PlatformClient, 0, 3)

	if cfg.Shopee.Enabled {
		sc := platforms.NewShopeeConfig(cfg.Shopee.PartnerID, cfg.Shopee.PartnerKey, cfg.Shopee.ShopID)
		if cfg.Shopee.APIBaseURL != "" {
			sc.APIBaseURL = cfg.Shopee.APIBaseURL
		}
		if cfg.Shopee.TimeoutSeconds > 0 {
			sc.TimeoutSeconds = cfg.Shopee.TimeoutSeconds
		}
		adapter, err := platforms.NewShopeeAdapter(sc)
		if err != nil {
			return nil, err
		}
		clients = append(clients, adapter)
	}

	if cfg.TikTok.Enabled {
		tc := platforms.NewTikTokConfig(cfg.TikTok.AppKey, cfg.TikTok.AccessToken, cfg.TikTok.ShopCipher)
		if cfg.TikTok.APIBaseURL != "" {
			tc.APIBaseURL = cfg.TikTok.APIBaseURL
		}
		if cfg.TikTok.TimeoutSeconds > 0 {
			tc.TimeoutSeconds = cfg.TikTok.TimeoutSeconds
		}
		adapter, err := platforms.NewTikTokAdapter(tc)
		if err != nil {
			return nil, err
		}
		clients = append(clients, adapter)
	}

	if cfg.Facebook.Enabled {
		fc := platforms.NewFacebookConfig(cfg.Facebook.APIKey, cfg.Facebook.ShopID)
		if cfg.Facebook.APIBaseURL != "" {
			fc.APIBaseURL = cfg.Facebook.APIBaseURL
		}
		if cfg.Facebook.TimeoutSeconds > 0 {
			fc.TimeoutSeconds = cfg.Facebook.TimeoutSeconds
		}
		adapter, err := platforms.NewFacebookAdapter(fc)
		if err != nil {
			return nil, err
		}
		clients = append(clients, adapter)
	}

	return clients, nil
}

// healthHandler returns a handler for the root health check endpoint
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
