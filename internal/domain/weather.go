package domain

import (
	"math"
	"time"
)

// DailyWeather is one calendar day of forecast input. Temperatures are °C.
type DailyWeather struct {
	Date           time.Time `json:"date"`
	TemperatureMax float64   `json:"temperature_max"`
	TemperatureMin float64   `json:"temperature_min"`
}

// HourlyWeather is one hourly forecast sample. Units: RH %, wind m/s,
// radiation W/m², temperature °C. Absent samples are NaN, not zero, so that
// a missing reading is distinguishable from a calm or cold one.
type HourlyWeather struct {
	Timestamp        time.Time `json:"timestamp"`
	RelativeHumidity float64   `json:"relative_humidity"`
	WindSpeed        float64   `json:"wind_speed"`
	Radiation        float64   `json:"radiation"`
	Temperature      float64   `json:"temperature"`
}

// DailyAggregate holds the per-day means of the hourly series that the
// evapotranspiration model needs.
type DailyAggregate struct {
	HumidityMean  float64
	WindMean      float64
	RadiationMean float64
	TempMean      float64
	Samples       int
}

// ForecastBundle is the weather payload a provider returns for one location.
type ForecastBundle struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Elevation float64         `json:"elevation"` // metres above sea level
	Daily     []DailyWeather  `json:"daily"`
	Hourly    []HourlyWeather `json:"hourly"`
}

// SoilSample is a point soil survey result. Advisory context only; no core
// calculation depends on it.
type SoilSample struct {
	PH         float64 `json:"ph"`
	Nitrogen   float64 `json:"nitrogen"`   // total N, %
	Phosphorus float64 `json:"phosphorus"` // P2O5, kg/ha
	Potassium  float64 `json:"potassium"`  // kg/ha
}

// dateKey truncates a timestamp to its UTC calendar date.
func dateKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AggregateHourly buckets hourly samples by UTC calendar date and averages
// each series, skipping NaN samples per series. A date is only present in the
// result when every series the ET0 model requires (humidity, wind, radiation,
// temperature) had at least one valid sample, so a lookup miss means
// "insufficient data" and triggers the model's fallback. Daily and hourly
// sequences of different shapes are therefore matched by date, never by index.
func AggregateHourly(hours []HourlyWeather) map[time.Time]DailyAggregate {
	type sums struct {
		humidity, wind, radiation, temp             float64
		nHumidity, nWind, nRadiation, nTemp, nTotal int
	}

	byDate := make(map[time.Time]*sums)
	for _, h := range hours {
		key := dateKey(h.Timestamp)
		s := byDate[key]
		if s == nil {
			s = &sums{}
			byDate[key] = s
		}
		s.nTotal++
		if !math.IsNaN(h.RelativeHumidity) {
			s.humidity += h.RelativeHumidity
			s.nHumidity++
		}
		if !math.IsNaN(h.WindSpeed) {
			s.wind += h.WindSpeed
			s.nWind++
		}
		if !math.IsNaN(h.Radiation) {
			s.radiation += h.Radiation
			s.nRadiation++
		}
		if !math.IsNaN(h.Temperature) {
			s.temp += h.Temperature
			s.nTemp++
		}
	}

	out := make(map[time.Time]DailyAggregate, len(byDate))
	for key, s := range byDate {
		if s.nHumidity == 0 || s.nWind == 0 || s.nRadiation == 0 || s.nTemp == 0 {
			continue
		}
		out[key] = DailyAggregate{
			HumidityMean:  s.humidity / float64(s.nHumidity),
			WindMean:      s.wind / float64(s.nWind),
			RadiationMean: s.radiation / float64(s.nRadiation),
			TempMean:      s.temp / float64(s.nTemp),
			Samples:       s.nTotal,
		}
	}
	return out
}
