package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/calyptra/agrocast/internal/domain"
	"github.com/calyptra/agrocast/internal/observability"
)

// Publisher writes a completed forecast run to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, run domain.ForecastRun) error
}

// Forecaster orchestrates one fetch-analyze-publish run per request. The soil
// provider and publisher are optional; a nil value disables that step.
type Forecaster struct {
	weather   domain.WeatherProvider
	soil      domain.SoilProvider
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Forecaster with the given providers and observability.
func New(weather domain.WeatherProvider, soil domain.SoilProvider, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Forecaster {
	return &Forecaster{
		weather:   weather,
		soil:      soil,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one forecast run has completed,
// or an error describing why the service is not yet ready.
func (f *Forecaster) CheckReadiness(_ context.Context) error {
	if !f.ready.Load() {
		return errors.New("no forecast run has completed yet")
	}
	return nil
}

// Forecast fetches weather for the location, runs the agronomic analysis for
// the crop, attaches a soil sample when a provider is configured, and
// publishes the run. Soil and publish failures are logged but do not fail the
// run; a weather fetch failure does.
func (f *Forecaster) Forecast(ctx context.Context, crop string, lat, lon float64, days int) (domain.ForecastRun, error) {
	start := time.Now()

	bundle, err := f.weather.FetchForecast(ctx, lat, lon, days)
	if err != nil {
		f.metrics.ForecastErrors.Inc()
		return domain.ForecastRun{}, fmt.Errorf("fetch forecast: %w", err)
	}

	analyzer := domain.NewAnalyzer(crop)
	analyses := analyzer.Analyze(bundle.Daily, bundle.Hourly, bundle.Elevation)

	run := domain.ForecastRun{
		Crop:         analyzer.Profile().Name,
		Latitude:     lat,
		Longitude:    lon,
		Elevation:    bundle.Elevation,
		PlantingDate: analyzer.PlantingDate(),
		GeneratedAt:  time.Now().UTC(),
		Days:         analyses,
	}

	if f.soil != nil {
		sample, err := f.soil.Sample(ctx, lat, lon)
		if err != nil {
			f.logger.Warn("soil sample failed, continuing without it", "error", err, "lat", lat, "lon", lon)
		} else {
			run.Soil = &sample
		}
	}

	f.observeRun(run)

	if f.publisher != nil {
		if err := f.publisher.Publish(ctx, run); err != nil {
			f.logger.Error("publish forecast run failed", "error", err, "crop", run.Crop)
			f.metrics.PublishErrors.Inc()
		} else {
			f.metrics.AnalysesPublished.Inc()
		}
	}

	f.metrics.ForecastsTotal.Inc()
	f.metrics.ForecastDuration.Observe(time.Since(start).Seconds())
	f.ready.Store(true)
	f.metrics.ServiceReady.Set(1)

	f.logger.Info("forecast run completed",
		"crop", run.Crop,
		"lat", lat,
		"lon", lon,
		"days", len(run.Days),
		"duration", time.Since(start),
	)
	return run, nil
}

// observeRun records per-day metrics for a completed run.
func (f *Forecaster) observeRun(run domain.ForecastRun) {
	f.metrics.ForecastDays.Observe(float64(len(run.Days)))
	for _, day := range run.Days {
		// Counts any day whose computed ET0 lands exactly on the sentinel
		// as a fallback day; close enough for a coarse signal.
		if day.ET0 == domain.FallbackET0 {
			f.metrics.ET0FallbackDays.Inc()
		}
		for _, risk := range day.Risks {
			f.metrics.StressRisks.WithLabelValues(riskLabel(risk.Type)).Inc()
		}
	}
}

func riskLabel(riskType string) string {
	switch riskType {
	case domain.RiskHeatStress:
		return "heat"
	case domain.RiskColdStress:
		return "cold"
	case domain.RiskDisease:
		return "disease"
	default:
		return "other"
	}
}
