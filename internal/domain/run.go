package domain

import "time"

// ForecastRun is one completed analysis for a crop at a location: the serving
// layer's response payload and the sink topic's message body.
type ForecastRun struct {
	Crop         string          `json:"crop"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Elevation    float64         `json:"elevation"`
	PlantingDate time.Time       `json:"planting_date"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Soil         *SoilSample     `json:"soil,omitempty"`
	Days         []DailyAnalysis `json:"days"`
}
