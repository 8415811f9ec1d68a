package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/calyptra/agrocast/internal/config"
	"github.com/calyptra/agrocast/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ForecastService produces an agronomic forecast run for a crop and location.
type ForecastService interface {
	Forecast(ctx context.Context, crop string, lat, lon float64, days int) (domain.ForecastRun, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the forecast API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	service    ForecastService
	logger     *slog.Logger

	defaultLat  float64
	defaultLon  float64
	defaultDays int
}

// NewServer creates the HTTP server with /v1/forecast, /v1/crops, /healthz,
// /readyz, and /metrics routes. Omitted query params fall back to the
// configured default location and horizon.
func NewServer(cfg *config.Config, svc ForecastService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service:     svc,
		logger:      logger,
		defaultLat:  cfg.DefaultLatitude,
		defaultLon:  cfg.DefaultLongitude,
		defaultDays: cfg.ForecastDays,
	}

	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/crops", s.handleCrops)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	crop := q.Get("crop")
	if crop == "" {
		crop = domain.DefaultCrop
	}

	lat, err := floatParam(q.Get("lat"), s.defaultLat)
	if err != nil || lat < -90 || lat > 90 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat must be a number in [-90, 90]"})
		return
	}
	lon, err := floatParam(q.Get("lon"), s.defaultLon)
	if err != nil || lon < -180 || lon > 180 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lon must be a number in [-180, 180]"})
		return
	}
	days, err := intParam(q.Get("days"), s.defaultDays)
	if err != nil || days < 1 || days > 16 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be an integer in [1, 16]"})
		return
	}

	run, err := s.service.Forecast(r.Context(), crop, lat, lon, days)
	if err != nil {
		s.logger.Error("forecast request failed", "error", err, "crop", crop, "lat", lat, "lon", lon)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "weather data unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleCrops(w http.ResponseWriter, _ *http.Request) {
	crops := domain.SupportedCrops()
	sort.Strings(crops)
	writeJSON(w, http.StatusOK, map[string]any{
		"crops":   crops,
		"default": domain.DefaultCrop,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func floatParam(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
