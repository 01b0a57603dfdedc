package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-sync/internal/cache"
	"storefront-sync/internal/catalog"
	"storefront-sync/internal/config"
	"storefront-sync/internal/device"
	"storefront-sync/internal/handlers"
	"storefront-sync/internal/inbox"
	"storefront-sync/internal/kafka"
	"storefront-sync/internal/models"
	"storefront-sync/internal/preferences"
	"storefront-sync/internal/remote"
	"storefront-sync/internal/scheduler"
	"storefront-sync/internal/secrets"
	"storefront-sync/internal/state"
	"storefront-sync/internal/store"
	"storefront-sync/internal/syncer"
	"storefront-sync/pkg/logger"
	"storefront-sync/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Storefront Sync API
// @version         1.0
// @description     Local API of the storefront sync daemon: sales, markets, events, announcements, catalog, inbox, device registration and preferences.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8085
// @BasePath  /api/v1

// @schemes   http

// Request ID Header
// @description Write endpoints replay their first response when X-Request-ID is repeated.
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting storefront sync daemon",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("backend", cfg.BackendURL("")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local persistence
	appLogger.Info("💾 SQLite Configuration", zap.String("path", cfg.SQLitePath))
	kv, closeStore, err := store.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("❌ Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			appLogger.Error("Failed to close local store", zap.Error(err))
		}
	}()

	appLogger.Info("💾 Cache Configuration",
		zap.Bool("redis_enabled", cfg.UseCache),
		zap.Int("cache_ttl", cfg.CacheTTL),
	)
	cacheClient := cache.NewCache(cfg, appLogger)

	// Remote backend and catalog
	client := remote.NewClient(cfg, appLogger)
	var catalogSource catalog.Source
	if cfg.CatalogProviderToken != "" {
		appLogger.Info("🛒 Catalog source: commerce provider", zap.String("url", cfg.CatalogProviderURL))
		catalogSource = catalog.NewProviderClient(cfg, appLogger)
	} else {
		appLogger.Info("🛒 Catalog source: dashboard", zap.String("url", cfg.BackendURL(remote.PathCatalog)))
		catalogSource = catalog.NewDashboardSource(client)
	}
	catalogService := catalog.NewService(catalogSource, cacheClient, cache.CatalogTTL(cfg), appLogger)

	// Local state
	appLogger.Info("🔧 Initializing local state...")
	st := state.New()
	notifications := inbox.New(ctx, kv, appLogger)
	prefs := preferences.New(ctx, kv, appLogger)
	engine := syncer.NewEngine(client, st, notifications, prefs, appLogger)
	appLogger.Info("✅ Local state initialized successfully",
		zap.Int("inbox_items", len(notifications.Items())),
		zap.Int("unread", notifications.UnreadCount()),
	)

	// Device registration
	registrar := device.NewRegistrar(client, secrets.NewKVSecretStore(kv), cfg.DevicePlatform, cfg.DeviceName, appLogger)
	deviceID, err := registrar.EnsureIdentity(ctx)
	if err != nil {
		appLogger.Error("❌ Failed to load device identity", zap.Error(err))
	} else {
		appLogger.Info("📱 Device identity ready", zap.String("device_id", deviceID))
	}

	sched := scheduler.New(engine, registrar, time.Duration(cfg.PollIntervalSec)*time.Second, appLogger)
	schedDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(schedDone)
	}()
	sched.Trigger(models.TriggerLaunch)

	// Kafka push arrivals (optional)
	if cfg.UseKafka {
		appLogger.Info("📡 Kafka Configuration",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic_push", cfg.KafkaTopicPush),
			zap.String("topic_receipts", cfg.KafkaTopicReceipts),
			zap.String("group_id", cfg.KafkaGroupID),
		)

		var receipts kafka.ReceiptPublisher
		producer, err := kafka.NewProducer(cfg, appLogger)
		if err != nil {
			appLogger.Warn("Continuing without push receipts", zap.Error(err))
		} else {
			receipts = producer
			defer producer.Close()
		}

		processor := kafka.NewEventProcessor(notifications, sched, receipts, func() string {
			return registrar.Status().DeviceID
		}, appLogger)
		consumer, err := kafka.NewConsumer(cfg, processor, appLogger)
		if err != nil {
			appLogger.Warn("Failed to initialize Kafka consumer, continuing without push arrivals", zap.Error(err))
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Start(ctx); err != nil {
					appLogger.Error("Kafka consumer error", zap.Error(err))
				}
			}()
			appLogger.Info("✅ Kafka consumer started for push arrivals")
		}
	} else {
		appLogger.Info("⏭️  Skipping Kafka consumer (USE_KAFKA=false)")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := handlers.NewStorefrontHandler(handlers.Dependencies{
		State:       st,
		Refresher:   engine,
		Triggers:    sched,
		Catalog:     catalogService,
		Inbox:       notifications,
		Preferences: prefs,
		Registrar:   registrar,
	}, appLogger)
	router := handlers.NewRouter(handler, middleware.NewCacheRequestIDStore(cacheClient), appLogger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("🌐 Starting HTTP server",
			zap.String("address", ":"+cfg.Port),
			zap.String("swagger_url", "http://localhost:"+cfg.Port+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	cancel()
	select {
	case <-schedDone:
	case <-shutdownCtx.Done():
		appLogger.Warn("Timed out waiting for in-flight refreshes")
	}

	appLogger.Info("Server exited")
}
