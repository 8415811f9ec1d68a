// Package openmeteo implements domain.WeatherProvider against the Open-Meteo
// forecast API (https://open-meteo.com). The API needs no key; requests are
// retried with exponential backoff and null samples decode to NaN so the
// core's degrade-gracefully policy applies downstream.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/calyptra/agrocast/internal/domain"
	"github.com/calyptra/agrocast/internal/observability"
)

const (
	dailyDateLayout  = "2006-01-02"
	hourlyTimeLayout = "2006-01-02T15:04"

	// maxRetries gives five attempts total: the initial request plus four
	// retries.
	maxRetries = 4
)

// Client fetches forecasts from the Open-Meteo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchForecast requests daily temperature extremes and the hourly series the
// evapotranspiration model needs, for the given horizon in days.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, days int) (domain.ForecastBundle, error) {
	params := url.Values{
		"latitude":        {formatCoord(lat)},
		"longitude":       {formatCoord(lon)},
		"daily":           {"temperature_2m_max,temperature_2m_min"},
		"hourly":          {"relative_humidity_2m,wind_speed_120m,terrestrial_radiation,temperature_2m"},
		"wind_speed_unit": {"ms"},
		"timezone":        {"UTC"},
		"forecast_days":   {strconv.Itoa(days)},
	}

	var payload response
	operation := func() error {
		start := time.Now()
		err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), &payload)
		c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
	if err != nil {
		return domain.ForecastBundle{}, err
	}

	return mapResponse(payload)
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out *response) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// mapResponse converts the column-oriented API payload into domain records.
// Row counts must line up within each block; a ragged payload is an error
// rather than a silent truncation.
func mapResponse(payload response) (domain.ForecastBundle, error) {
	d := payload.Daily
	if len(d.TemperatureMax) != len(d.Time) || len(d.TemperatureMin) != len(d.Time) {
		return domain.ForecastBundle{}, fmt.Errorf("ragged daily block: %d dates, %d max, %d min",
			len(d.Time), len(d.TemperatureMax), len(d.TemperatureMin))
	}

	// A day without temperature extremes cannot be analyzed at all, so such
	// rows are dropped here; the hourly series keeps NaN placeholders because
	// the core aggregates around them.
	daily := make([]domain.DailyWeather, 0, len(d.Time))
	for i, ds := range d.Time {
		date, err := time.ParseInLocation(dailyDateLayout, ds, time.UTC)
		if err != nil {
			return domain.ForecastBundle{}, fmt.Errorf("parse daily date %q: %w", ds, err)
		}
		if d.TemperatureMax[i] == nil || d.TemperatureMin[i] == nil {
			continue
		}
		daily = append(daily, domain.DailyWeather{
			Date:           date,
			TemperatureMax: *d.TemperatureMax[i],
			TemperatureMin: *d.TemperatureMin[i],
		})
	}

	h := payload.Hourly
	if len(h.RelativeHumidity) != len(h.Time) || len(h.WindSpeed) != len(h.Time) ||
		len(h.Radiation) != len(h.Time) || len(h.Temperature) != len(h.Time) {
		return domain.ForecastBundle{}, fmt.Errorf("ragged hourly block: %d timestamps", len(h.Time))
	}

	hourly := make([]domain.HourlyWeather, len(h.Time))
	for i, ts := range h.Time {
		stamp, err := time.ParseInLocation(hourlyTimeLayout, ts, time.UTC)
		if err != nil {
			return domain.ForecastBundle{}, fmt.Errorf("parse hourly timestamp %q: %w", ts, err)
		}
		hourly[i] = domain.HourlyWeather{
			Timestamp:        stamp,
			RelativeHumidity: floatOrNaN(h.RelativeHumidity[i]),
			WindSpeed:        floatOrNaN(h.WindSpeed[i]),
			Radiation:        floatOrNaN(h.Radiation[i]),
			Temperature:      floatOrNaN(h.Temperature[i]),
		}
	}

	return domain.ForecastBundle{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Elevation: payload.Elevation,
		Daily:     daily,
		Hourly:    hourly,
	}, nil
}

// floatOrNaN maps a JSON null to NaN, the core's missing-sample sentinel.
func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Open-Meteo API response types. The payload is column-oriented: parallel
// arrays keyed by timestamp. Null readings stay nullable here.

type response struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Elevation float64     `json:"elevation"`
	Daily     dailyBlock  `json:"daily"`
	Hourly    hourlyBlock `json:"hourly"`
}

type dailyBlock struct {
	Time           []string   `json:"time"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
}

type hourlyBlock struct {
	Time             []string   `json:"time"`
	RelativeHumidity []*float64 `json:"relative_humidity_2m"`
	WindSpeed        []*float64 `json:"wind_speed_120m"`
	Radiation        []*float64 `json:"terrestrial_radiation"`
	Temperature      []*float64 `json:"temperature_2m"`
}
