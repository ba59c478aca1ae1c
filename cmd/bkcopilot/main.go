package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bkcopilot/internal/backend"
	"bkcopilot/internal/bus"
	"bkcopilot/internal/cache"
	"bkcopilot/internal/config"
	apphttp "bkcopilot/internal/http"
	applog "bkcopilot/internal/log"
	"bkcopilot/internal/records"
	"bkcopilot/internal/revsync"
	"bkcopilot/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting bkcopilot")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	changeBus := bus.New()
	recs := records.New(result.Store)
	syncer := revsync.New(result.Store)

	svcs := services.New(recs, syncer, changeBus, services.Options{
		CacheTTL:     cfg.CacheTTL,
		CacheEntries: cfg.CacheEntries,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot cache: event-driven purge plus periodic expiry sweep.
	go svcs.Dashboard.WatchBus(ctx, changeBus)
	cacheManager := cache.NewManager()
	cacheManager.Register(svcs.SnapshotCache())
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	// Relay local change events to the broker when one is configured.
	if result.AMQP != nil {
		go func() {
			events, unsubscribe := changeBus.Subscribe(32)
			defer unsubscribe()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						return
					}
					if err := result.AMQP.PublishChange(ctx, ev); err != nil {
						logger.Warn("Failed to relay change event", "error", err,
							"collection", ev.Collection, "op", string(ev.Op))
					}
				}
			}
		}()
	}

	srv := apphttp.NewServer(":"+cfg.Port, svcs, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting HTTP server", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
