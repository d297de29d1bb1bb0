package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/helpline-analytics-service/internal/adapter/httpapi"
	"github.com/couchcryptid/helpline-analytics-service/internal/adapter/mapbox"
	"github.com/couchcryptid/helpline-analytics-service/internal/allocations"
	"github.com/couchcryptid/helpline-analytics-service/internal/config"
	"github.com/couchcryptid/helpline-analytics-service/internal/dataset"
	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
	"github.com/couchcryptid/helpline-analytics-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Jurisdiction backfill is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		metrics.GeocodeEnabled.Set(0)
		logger.Info("mapbox geocoding disabled")
	}

	store := dataset.NewStore(cfg.DataFile, geocoder, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The service starts even when the initial load fails; /readyz stays
	// unready until a reload or watch event succeeds.
	if err := store.Load(ctx); err != nil {
		logger.Error("initial call-log load failed", "error", err, "path", cfg.DataFile)
	}

	if cfg.WatchEnabled {
		watcher := dataset.NewWatcher(store, cfg.DataFile, cfg.ReloadDebounce, logger, metrics)
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Error("file watcher error", "error", err)
			}
		}()
	}

	var alloc *allocations.Store
	if cfg.AllocationsFile != "" {
		alloc = allocations.NewStore(cfg.AllocationsFile, logger)
		logger.Info("allocations log enabled", "path", cfg.AllocationsFile)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, store, alloc, cfg.Dashboard, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
