package domain

import "context"

// WeatherProvider supplies a multi-day forecast for a location.
type WeatherProvider interface {
	// FetchForecast returns daily and hourly records covering the requested
	// horizon, plus the location's elevation. Daily records arrive in date
	// order.
	FetchForecast(ctx context.Context, lat, lon float64, days int) (ForecastBundle, error)
}

// SoilProvider supplies a point soil survey sample.
type SoilProvider interface {
	Sample(ctx context.Context, lat, lon float64) (SoilSample, error)
}
