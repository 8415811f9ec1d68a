package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/calyptra/agrocast/internal/adapter/http"
	kafkaadapter "github.com/calyptra/agrocast/internal/adapter/kafka"
	"github.com/calyptra/agrocast/internal/adapter/openmeteo"
	"github.com/calyptra/agrocast/internal/adapter/soil"
	"github.com/calyptra/agrocast/internal/config"
	"github.com/calyptra/agrocast/internal/domain"
	"github.com/calyptra/agrocast/internal/observability"
	"github.com/calyptra/agrocast/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
	weather := openmeteo.NewCachedProvider(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, metrics)

	// Soil survey lookups (feature-flagged via SOIL_ENABLED).
	var soilProvider domain.SoilProvider
	if cfg.SoilEnabled {
		soilProvider = soil.NewClient(cfg.SoilBaseURL, cfg.SoilTimeout, logger)
		logger.Info("soil survey lookups enabled", "base_url", cfg.SoilBaseURL)
	} else {
		logger.Info("soil survey lookups disabled")
	}

	// Sink topic publishing (feature-flagged via KAFKA_ENABLED).
	var publisher service.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka sink disabled")
	}

	forecaster := service.New(weather, soilProvider, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg, forecaster, forecaster, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache and flip readiness with a run for the default location.
	go func() {
		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		run, err := forecaster.Forecast(probeCtx, domain.DefaultCrop, cfg.DefaultLatitude, cfg.DefaultLongitude, cfg.ForecastDays)
		if err != nil {
			logger.Warn("startup forecast probe failed, service stays not-ready until first successful run", "error", err)
			return
		}
		logger.Info("startup forecast probe completed", "crop", run.Crop, "days", len(run.Days))
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
