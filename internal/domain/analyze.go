package domain

import (
	"math"
	"time"
)

// DailyAnalysis is one day of agronomic output. Immutable once produced.
// DailyGDD, AccumulatedGDD, and ET0 carry display precision (one decimal);
// accumulation internally uses the unrounded values.
type DailyAnalysis struct {
	DayIndex       int       `json:"day_index"` // 1-based position in the input sequence
	Date           time.Time `json:"date"`
	DailyGDD       float64   `json:"daily_gdd"`
	AccumulatedGDD float64   `json:"accumulated_gdd"`
	CropStage      string    `json:"crop_stage"`
	Risks          []Risk    `json:"risks"`
	TemperatureMax float64   `json:"temperature_max"`
	TemperatureMin float64   `json:"temperature_min"`
	ET0            float64   `json:"et0"`
}

// Analyzer runs the day-by-day agronomic simulation for one crop. Each
// Analyze call owns a fresh accumulator; an Analyzer holds no mutable state
// between runs, so one value may serve concurrent callers.
type Analyzer struct {
	profile      CropProfile
	plantingDate time.Time
}

// NewAnalyzer builds an analyzer for the named crop, falling back to the
// Rice profile when the crop is unknown. The forecast window is treated as
// part of an in-progress season: the first forecast day is day 1, and the
// planting date defaults to the current date. The source data carries no
// observed planting date, so no phenology calibration happens against one.
func NewAnalyzer(cropName string) *Analyzer {
	return &Analyzer{
		profile:      ProfileOrDefault(cropName),
		plantingDate: dateKey(clock.Now()),
	}
}

// WithPlantingDate overrides the assumed season start. It does not shift
// thermal accumulation, which always starts at zero on the first forecast
// day; it only records the assumption for downstream consumers.
func (a *Analyzer) WithPlantingDate(d time.Time) *Analyzer {
	a.plantingDate = dateKey(d)
	return a
}

// Profile returns the resolved crop profile (after any Rice fallback).
func (a *Analyzer) Profile() CropProfile { return a.profile }

// PlantingDate returns the assumed season start date.
func (a *Analyzer) PlantingDate() time.Time { return a.plantingDate }

// Analyze walks the daily forecast in the given order (assumed date-sorted;
// it does not re-sort) and emits one DailyAnalysis per input day. Hourly
// records are aggregated into per-date means first; days without a matching
// aggregate fall back to the fixed ET0 value rather than failing, so one bad
// or missing sample never aborts the batch. Empty input yields an empty
// (non-nil) result.
func (a *Analyzer) Analyze(daily []DailyWeather, hourly []HourlyWeather, elevation float64) []DailyAnalysis {
	aggregates := AggregateHourly(hourly)

	results := make([]DailyAnalysis, 0, len(daily))
	accumulatedGDD := 0.0

	for i, day := range daily {
		gdd := DailyGDD(a.profile, day.TemperatureMax, day.TemperatureMin)
		accumulatedGDD += gdd

		stage := ClassifyStage(accumulatedGDD)
		risks := StressRisks(a.profile, day.TemperatureMax, day.TemperatureMin)

		et0 := FallbackET0
		if agg, ok := aggregates[dateKey(day.Date)]; ok {
			et0 = ComputeET0(ET0Input{
				TempMin:      day.TemperatureMin,
				TempMax:      day.TemperatureMax,
				TempMean:     (day.TemperatureMax + day.TemperatureMin) / 2,
				HumidityMean: agg.HumidityMean,
				WindSpeed:    agg.WindMean,
				Elevation:    elevation,
				Radiation:    agg.RadiationMean,
				DayOfYear:    day.Date.YearDay(),
			})
			if r, ok := DiseaseRisk(a.profile, agg.HumidityMean); ok {
				risks = append(risks, r)
			}
		}

		results = append(results, DailyAnalysis{
			DayIndex:       i + 1,
			Date:           day.Date,
			DailyGDD:       round1(gdd),
			AccumulatedGDD: round1(accumulatedGDD),
			CropStage:      stage,
			Risks:          risks,
			TemperatureMax: day.TemperatureMax,
			TemperatureMin: day.TemperatureMin,
			ET0:            round1(et0),
		})
	}
	return results
}

// round1 rounds to one decimal place for display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
