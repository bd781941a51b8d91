// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/checkout"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/product"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/search"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/user"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/backend"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/storage"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/handlers"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/routes"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/auth"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/logger"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/metrics"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/tracing"
)

const housekeepingInterval = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	appLogger.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("🚀 Starting %s", cfg.App.Name)

	shutdownTracing, err := tracing.Init(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize tracing")
	}

	// Open visitor storage
	store, err := storage.Open(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open storage")
	}

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Health(healthCtx); err != nil {
		cancelHealth()
		appLogger.WithError(err).Fatal("Storage health check failed")
	}
	cancelHealth()

	// Services
	client := backend.NewClient(cfg.Backend, appLogger)
	appMetrics := metrics.New()

	productService := product.NewService(client, appLogger)
	sessions := session.NewManager(auth.NewTokenInspector())
	cartService := cart.NewService(client, productService, appLogger)
	syncCoordinator := cart.NewSyncCoordinator(client, appLogger)
	userService := user.NewService(client, sessions, syncCoordinator, appMetrics, appLogger)
	checkoutService := checkout.NewService(cartService, appLogger)

	searchHub := search.NewHub(
		search.HubConfig{Window: cfg.Search.DebounceWindow, IdleTTL: cfg.Search.IdleEviction},
		productService,
		appLogger,
		search.WithRecorder(appMetrics),
	)

	server := http.NewServer(cfg, http.Dependencies{
		Storage:  store,
		Sessions: sessions,
		Metrics:  appMetrics,
		Handlers: routes.Handlers{
			Auth:     handlers.NewAuthHandler(userService, appLogger),
			Product:  handlers.NewProductHandler(productService, appLogger),
			Cart:     handlers.NewCartHandler(cartService, appLogger),
			Search:   handlers.NewSearchHandler(searchHub, appMetrics, cfg.Security.CORSAllowedOrigins, appLogger),
			Checkout: handlers.NewCheckoutHandler(checkoutService, appLogger),
		},
	}, appLogger)

	appLogger.Info("✅ All systems operational!")

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	stopHousekeeping := make(chan struct{})
	go housekeep(store, searchHub, appLogger, stopHousekeeping)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")
	close(stopHousekeeping)

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	searchHub.Close()

	if err := store.Close(); err != nil {
		appLogger.WithError(err).Error("Failed to close storage")
	}

	if err := shutdownTracing(ctx); err != nil {
		appLogger.WithError(err).Warn("Failed to flush traces")
	}

	appLogger.Info("✅ Server shutdown completed")
}

// housekeep purges expired storage rows and evicts idle search sessions
// until stop is closed.
func housekeep(store *storage.Storage, hub *search.Hub, logger *logrus.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			purged, err := store.Housekeep(ctx)
			cancel()
			if err != nil {
				logger.WithError(err).Warn("Storage housekeeping failed")
			}

			evicted := hub.Sweep(now)
			if purged > 0 || evicted > 0 {
				logger.WithFields(logrus.Fields{
					"purged_entries":   purged,
					"evicted_searches": evicted,
				}).Debug("Housekeeping completed")
			}
		}
	}
}
