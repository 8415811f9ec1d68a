package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/agrocast/internal/observability"
)

const samplePayload = `{
	"latitude": 27.7,
	"longitude": 85.3,
	"elevation": 1337.0,
	"daily": {
		"time": ["2026-03-10", "2026-03-11"],
		"temperature_2m_max": [24.5, 26.1],
		"temperature_2m_min": [12.0, 13.4]
	},
	"hourly": {
		"time": ["2026-03-10T00:00", "2026-03-10T01:00", "2026-03-10T02:00"],
		"relative_humidity_2m": [81.0, null, 78.0],
		"wind_speed_120m": [2.1, 2.4, 2.2],
		"terrestrial_radiation": [0.0, 0.0, 12.5],
		"temperature_2m": [13.2, 12.9, 12.7]
	}
}`

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchForecast_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "27.7000", q.Get("latitude"))
		assert.Equal(t, "85.3000", q.Get("longitude"))
		assert.Equal(t, "16", q.Get("forecast_days"))
		assert.Equal(t, "ms", q.Get("wind_speed_unit"))
		assert.Equal(t, "UTC", q.Get("timezone"))
		assert.Contains(t, q.Get("daily"), "temperature_2m_max")
		assert.Contains(t, q.Get("hourly"), "terrestrial_radiation")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	bundle, err := testClient(srv.URL).FetchForecast(context.Background(), 27.7, 85.3, 16)
	require.NoError(t, err)

	assert.Equal(t, 27.7, bundle.Latitude)
	assert.Equal(t, 1337.0, bundle.Elevation)

	require.Len(t, bundle.Daily, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), bundle.Daily[0].Date)
	assert.Equal(t, 24.5, bundle.Daily[0].TemperatureMax)
	assert.Equal(t, 13.4, bundle.Daily[1].TemperatureMin)

	require.Len(t, bundle.Hourly, 3)
	assert.Equal(t, time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC), bundle.Hourly[1].Timestamp)
	assert.True(t, math.IsNaN(bundle.Hourly[1].RelativeHumidity), "null reading should decode to NaN")
	assert.Equal(t, 2.4, bundle.Hourly[1].WindSpeed)
}

func TestClient_FetchForecast_DropsDaysWithoutTemperatures(t *testing.T) {
	payload := `{
		"daily": {
			"time": ["2026-03-10", "2026-03-11"],
			"temperature_2m_max": [24.5, null],
			"temperature_2m_min": [12.0, 13.4]
		},
		"hourly": {"time": [], "relative_humidity_2m": [], "wind_speed_120m": [],
			"terrestrial_radiation": [], "temperature_2m": []}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	bundle, err := testClient(srv.URL).FetchForecast(context.Background(), 0, 0, 2)
	require.NoError(t, err)
	require.Len(t, bundle.Daily, 1)
	assert.Equal(t, 24.5, bundle.Daily[0].TemperatureMax)
}

func TestClient_FetchForecast_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"reason":"invalid latitude"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchForecast(context.Background(), 999, 0, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestClient_FetchForecast_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream flake", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	bundle, err := testClient(srv.URL).FetchForecast(context.Background(), 27.7, 85.3, 16)
	require.NoError(t, err)
	assert.Len(t, bundle.Daily, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_FetchForecast_RaggedPayload(t *testing.T) {
	payload := `{
		"daily": {
			"time": ["2026-03-10", "2026-03-11"],
			"temperature_2m_max": [24.5],
			"temperature_2m_min": [12.0, 13.4]
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchForecast(context.Background(), 0, 0, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged daily block")
}
