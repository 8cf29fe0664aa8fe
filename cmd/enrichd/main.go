package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/address-enrichment/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/address-enrichment/internal/adapter/kafka"
	"github.com/couchcryptid/address-enrichment/internal/adapter/nominatim"
	"github.com/couchcryptid/address-enrichment/internal/adapter/postgres"
	"github.com/couchcryptid/address-enrichment/internal/config"
	"github.com/couchcryptid/address-enrichment/internal/domain"
	"github.com/couchcryptid/address-enrichment/internal/observability"
	"github.com/couchcryptid/address-enrichment/internal/pipeline"
	"github.com/couchcryptid/address-enrichment/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to place store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var geocoder domain.Geocoder = nominatim.NewClient(
		cfg.NominatimBaseURL,
		cfg.NominatimUserAgent,
		cfg.NominatimLanguage,
		metrics,
		logger,
	)
	// One limiter instance for the whole process; the provider's rate
	// contract holds across every caller that reaches it. The cache sits
	// above the throttle so repeated coordinates never spend a limiter slot.
	limiter := ratelimit.NewIntervalLimiter(cfg.GeocodeMinInterval)
	geocoder = nominatim.NewThrottledGeocoder(geocoder, limiter, metrics)
	geocoder = nominatim.NewCachedGeocoder(geocoder, cfg.NominatimCacheSize, metrics)

	resolver := pipeline.NewResolver(geocoder, cfg.NominatimTimeout, logger)
	batch := pipeline.NewBatch(resolver, logger)

	// Enrichment events are feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("enrichment events enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("enrichment events disabled")
	}

	svc := pipeline.NewService(store, resolver, batch, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, store, logger)

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
