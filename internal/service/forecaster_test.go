package service_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/calyptra/agrocast/internal/domain"
	"github.com/calyptra/agrocast/internal/observability"
	"github.com/calyptra/agrocast/internal/service"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockWeather struct {
	bundle domain.ForecastBundle
	err    error
	calls  int
}

func (m *mockWeather) FetchForecast(_ context.Context, _, _ float64, _ int) (domain.ForecastBundle, error) {
	m.calls++
	if m.err != nil {
		return domain.ForecastBundle{}, m.err
	}
	return m.bundle, nil
}

type mockSoil struct {
	sample domain.SoilSample
	err    error
}

func (m *mockSoil) Sample(_ context.Context, _, _ float64) (domain.SoilSample, error) {
	if m.err != nil {
		return domain.SoilSample{}, m.err
	}
	return m.sample, nil
}

type mockPublisher struct {
	published []domain.ForecastRun
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, run domain.ForecastRun) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, run)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- helpers ---

func testBundle() domain.ForecastBundle {
	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	bundle := domain.ForecastBundle{
		Latitude:  27.7,
		Longitude: 85.3,
		Elevation: 120,
	}
	for i := 0; i < 3; i++ {
		date := base.AddDate(0, 0, i)
		bundle.Daily = append(bundle.Daily, domain.DailyWeather{
			Date:           date,
			TemperatureMax: 30,
			TemperatureMin: 20,
		})
		for h := 0; h < 24; h++ {
			bundle.Hourly = append(bundle.Hourly, domain.HourlyWeather{
				Timestamp:        date.Add(time.Duration(h) * time.Hour),
				RelativeHumidity: 60,
				WindSpeed:        2,
				Radiation:        250,
				Temperature:      25,
			})
		}
	}
	return bundle
}

// --- tests ---

func TestForecaster_Forecast_HappyPath(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	weather := &mockWeather{bundle: testBundle()}
	pub := &mockPublisher{}
	f := service.New(weather, nil, pub, slog.Default(), newTestMetrics())

	run, err := f.Forecast(context.Background(), "Rice", 27.7, 85.3, 3)
	require.NoError(t, err)

	assert.Equal(t, "Rice", run.Crop)
	assert.InDelta(t, 27.7, run.Latitude, 0.0001)
	assert.InDelta(t, 120.0, run.Elevation, 0.0001)
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), run.PlantingDate)
	require.Len(t, run.Days, 3)

	type daySummary struct {
		DayIndex       int
		DailyGDD       float64
		AccumulatedGDD float64
		CropStage      string
	}
	want := daySummary{DayIndex: 1, DailyGDD: 15.0, AccumulatedGDD: 15.0, CropStage: domain.StageVegetative}
	got := daySummary{
		DayIndex:       run.Days[0].DayIndex,
		DailyGDD:       run.Days[0].DailyGDD,
		AccumulatedGDD: run.Days[0].AccumulatedGDD,
		CropStage:      run.Days[0].CropStage,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("first day mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, pub.published, 1)
	assert.Equal(t, run.Crop, pub.published[0].Crop)
}

func TestForecaster_Forecast_WeatherError(t *testing.T) {
	weather := &mockWeather{err: errors.New("upstream down")}
	pub := &mockPublisher{}
	f := service.New(weather, nil, pub, slog.Default(), newTestMetrics())

	_, err := f.Forecast(context.Background(), "Rice", 27.7, 85.3, 3)
	require.Error(t, err)
	assert.Empty(t, pub.published)
	assert.Error(t, f.CheckReadiness(context.Background()))
}

func TestForecaster_Forecast_AttachesSoil(t *testing.T) {
	weather := &mockWeather{bundle: testBundle()}
	soil := &mockSoil{sample: domain.SoilSample{PH: 6.2, Nitrogen: 0.12, Phosphorus: 31.5, Potassium: 110}}
	f := service.New(weather, soil, nil, slog.Default(), newTestMetrics())

	run, err := f.Forecast(context.Background(), "Maize", 27.7, 85.3, 3)
	require.NoError(t, err)
	require.NotNil(t, run.Soil)
	assert.InDelta(t, 6.2, run.Soil.PH, 0.0001)
}

func TestForecaster_Forecast_SoilErrorIsNonFatal(t *testing.T) {
	weather := &mockWeather{bundle: testBundle()}
	soil := &mockSoil{err: errors.New("survey api down")}
	f := service.New(weather, soil, nil, slog.Default(), newTestMetrics())

	run, err := f.Forecast(context.Background(), "Maize", 27.7, 85.3, 3)
	require.NoError(t, err)
	assert.Nil(t, run.Soil)
	assert.Len(t, run.Days, 3)
}

func TestForecaster_Forecast_PublishErrorIsNonFatal(t *testing.T) {
	weather := &mockWeather{bundle: testBundle()}
	pub := &mockPublisher{err: errors.New("broker unreachable")}
	f := service.New(weather, nil, pub, slog.Default(), newTestMetrics())

	run, err := f.Forecast(context.Background(), "Rice", 27.7, 85.3, 3)
	require.NoError(t, err)
	assert.Len(t, run.Days, 3)
}

func TestForecaster_Forecast_UnknownCropFallsBackToRice(t *testing.T) {
	weather := &mockWeather{bundle: testBundle()}
	f := service.New(weather, nil, nil, slog.Default(), newTestMetrics())

	run, err := f.Forecast(context.Background(), "Dragonfruit", 27.7, 85.3, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCrop, run.Crop)
}

func TestForecaster_CheckReadiness(t *testing.T) {
	weather := &mockWeather{bundle: testBundle()}
	f := service.New(weather, nil, nil, slog.Default(), newTestMetrics())

	require.Error(t, f.CheckReadiness(context.Background()))

	_, err := f.Forecast(context.Background(), "Rice", 27.7, 85.3, 3)
	require.NoError(t, err)
	assert.NoError(t, f.CheckReadiness(context.Background()))
}
