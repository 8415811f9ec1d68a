package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast defaults.
	ForecastDays     int     // horizon requested from the weather provider
	DefaultLatitude  float64 // used by the startup readiness probe
	DefaultLongitude float64

	// Weather provider configuration.
	WeatherBaseURL   string
	WeatherTimeout   time.Duration
	WeatherCacheTTL  time.Duration
	WeatherCacheSize int

	// Soil survey configuration.
	SoilBaseURL string
	SoilEnabled bool
	SoilTimeout time.Duration

	// Kafka sink configuration.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherCacheTTL, err := parseDuration("WEATHER_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	soilTimeout, err := parseDuration("SOIL_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	forecastDays, err := parseInt("FORECAST_DAYS", 16)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("WEATHER_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("DEFAULT_LATITUDE", 27.7)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("DEFAULT_LONGITUDE", 85.3)
	if err != nil {
		return nil, err
	}

	soilURL := envOrDefault("SOIL_API_URL", "https://soil.narc.gov.np/soil/api/")
	soilEnabled := envOrDefault("SOIL_ENABLED", "false") == "true"

	kafkaEnabled := envOrDefault("KAFKA_ENABLED", "false") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ForecastDays:     forecastDays,
		DefaultLatitude:  lat,
		DefaultLongitude: lon,

		WeatherBaseURL:   envOrDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast"),
		WeatherTimeout:   weatherTimeout,
		WeatherCacheTTL:  weatherCacheTTL,
		WeatherCacheSize: cacheSize,

		SoilBaseURL: soilURL,
		SoilEnabled: soilEnabled,
		SoilTimeout: soilTimeout,

		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "agronomic-forecasts"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.ForecastDays < 1 || cfg.ForecastDays > 16 {
		return nil, errors.New("FORECAST_DAYS must be between 1 and 16")
	}
	if cfg.DefaultLatitude < -90 || cfg.DefaultLatitude > 90 {
		return nil, errors.New("DEFAULT_LATITUDE must be within [-90, 90]")
	}
	if cfg.DefaultLongitude < -180 || cfg.DefaultLongitude > 180 {
		return nil, errors.New("DEFAULT_LONGITUDE must be within [-180, 180]")
	}
	if cfg.SoilEnabled && cfg.SoilBaseURL == "" {
		return nil, errors.New("SOIL_ENABLED is true but SOIL_API_URL is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
