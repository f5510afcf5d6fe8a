package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-area-check/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-area-check/internal/adapter/kafka"
	"github.com/couchcryptid/flood-area-check/internal/adapter/mapbox"
	"github.com/couchcryptid/flood-area-check/internal/adapter/orbgeom"
	"github.com/couchcryptid/flood-area-check/internal/config"
	"github.com/couchcryptid/flood-area-check/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	api := httpadapter.API{
		Intersector: orbgeom.New(),
		MapKey:      cfg.MapKey,
	}
	if cfg.MapKey == "" {
		logger.Warn("no map key configured; /config will serve an empty key")
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxBaseURL, metrics, logger)
		api.Geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled; search will fail")
	}

	// Outcome publishing is optional. A broker outage only degrades publishing,
	// so readiness does not depend on it.
	ready := httpadapter.ReadinessFunc(func(context.Context) error { return nil })
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPublishTimeout, logger)
		api.Publisher = writer
		api.PublishTimeout = cfg.KafkaPublishTimeout
		logger.Info("outcome publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic, "timeout", cfg.KafkaPublishTimeout)

		dialCtx, cancel := context.WithTimeout(context.Background(), cfg.KafkaPublishTimeout)
		if err := writer.CheckReadiness(dialCtx); err != nil {
			logger.Warn("kafka unreachable at startup; outcomes will not be published until it recovers", "error", err)
		}
		cancel()
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, api, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
