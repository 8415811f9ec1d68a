// Command genmock generates a deterministic synthetic weather fixture for the
// service test suite. It uses the actual domain types so the fixture shape
// stays in lockstep with the provider contract.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/weather_16day.json -days 16
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/calyptra/agrocast/internal/domain"
)

var baseDate = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/weather_16day.json", "output path for the weather fixture")
	days := flag.Int("days", 16, "forecast horizon in days")
	flag.Parse()

	bundle := buildBundle(*days)
	if err := writeJSON(*out, bundle); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d daily, %d hourly)", *out, len(bundle.Daily), len(bundle.Hourly))
	return nil
}

// buildBundle produces a Kathmandu-valley forecast with small repeating
// variations. The patterns are chosen so the Rice analysis of the fixture
// stays risk-free and entirely Vegetative, which the tests assert.
func buildBundle(days int) domain.ForecastBundle {
	bundle := domain.ForecastBundle{
		Latitude:  27.7,
		Longitude: 85.3,
		Elevation: 120,
	}
	for i := 0; i < days; i++ {
		date := baseDate.AddDate(0, 0, i)
		tempMax := 29 + float64(i%4)
		tempMin := 19 + float64(i%3)
		bundle.Daily = append(bundle.Daily, domain.DailyWeather{
			Date:           date,
			TemperatureMax: tempMax,
			TemperatureMin: tempMin,
		})
		for h := 0; h < 24; h++ {
			radiation := 0.0
			if h >= 6 && h < 18 {
				radiation = 400
			}
			bundle.Hourly = append(bundle.Hourly, domain.HourlyWeather{
				Timestamp:        date.Add(time.Duration(h) * time.Hour),
				RelativeHumidity: 70 + 5*float64(i%3),
				WindSpeed:        2 + 0.5*float64(i%2),
				Radiation:        radiation,
				Temperature:      (tempMax + tempMin) / 2,
			})
		}
	}
	return bundle
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
