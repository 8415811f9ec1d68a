package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast service.
type Metrics struct {
	ForecastsTotal   prometheus.Counter
	ForecastErrors   prometheus.Counter
	ForecastDuration prometheus.Histogram
	ForecastDays     prometheus.Histogram
	ServiceReady     prometheus.Gauge

	// Core calculation metrics.
	ET0FallbackDays prometheus.Counter
	StressRisks     *prometheus.CounterVec // labels: type={heat,cold,disease}

	// Upstream weather provider metrics.
	WeatherAPIDuration prometheus.Histogram
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}

	// Analysis sink metrics.
	AnalysesPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "forecasts_total",
			Help:      "Total completed forecast runs.",
		}),
		ForecastErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "forecast_errors_total",
			Help:      "Total forecast runs that failed before producing output.",
		}),
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agrocast",
			Name:      "forecast_duration_seconds",
			Help:      "Duration of a complete fetch-analyze-publish run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ForecastDays: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agrocast",
			Name:      "forecast_days",
			Help:      "Number of analyzed days per forecast run.",
			Buckets:   []float64{1, 3, 7, 10, 14, 16},
		}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agrocast",
			Name:      "service_ready",
			Help:      "1 after the first successful forecast run, 0 before.",
		}),
		ET0FallbackDays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "et0_fallback_days_total",
			Help:      "Days analyzed with the fixed ET0 fallback due to missing hourly data.",
		}),
		StressRisks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "stress_risks_total",
			Help:      "Stress risk flags emitted, by risk type.",
		}, []string{"type"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agrocast",
			Name:      "weather_api_duration_seconds",
			Help:      "Upstream weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "weather_cache_total",
			Help:      "Weather forecast cache lookups by result.",
		}, []string{"result"}),
		AnalysesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "analyses_published_total",
			Help:      "Forecast runs published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrocast",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a forecast run.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastsTotal,
		m.ForecastErrors,
		m.ForecastDuration,
		m.ForecastDays,
		m.ServiceReady,
		m.ET0FallbackDays,
		m.StressRisks,
		m.WeatherAPIDuration,
		m.WeatherCache,
		m.AnalysesPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastsTotal:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agrocast", Name: "forecasts_total"}),
		ForecastErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agrocast", Name: "forecast_errors_total"}),
		ForecastDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agrocast", Name: "forecast_duration_seconds"}),
		ForecastDays:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agrocast", Name: "forecast_days"}),
		ServiceReady:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "agrocast", Name: "service_ready"}),
		ET0FallbackDays:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agrocast", Name: "et0_fallback_days_total"}),
		StressRisks:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agrocast", Name: "stress_risks_total"}, []string{"type"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "agrocast", Name: "weather_api_duration_seconds"}),
		WeatherCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "agrocast", Name: "weather_cache_total"}, []string{"result"}),
		AnalysesPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agrocast", Name: "analyses_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "agrocast", Name: "publish_errors_total"}),
	}
}
