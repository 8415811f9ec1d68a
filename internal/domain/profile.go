package domain

// DefaultCrop is the profile used when a requested crop is not in the
// registry. It is guaranteed to be present.
const DefaultCrop = "Rice"

// KcCurve holds the crop coefficient at the three canonical FAO-56 points of
// the season. Reserved for water-balance calculations; the current analyzer
// does not consume it but every profile must carry a complete curve.
type KcCurve struct {
	Init float64 `json:"init"`
	Mid  float64 `json:"mid"`
	End  float64 `json:"end"`
}

// StressThresholds are the trigger points for daily risk flags.
type StressThresholds struct {
	Heat            float64 `json:"heat"`             // °C, daily max above this fires heat stress
	Cold            float64 `json:"cold"`             // °C, daily min below this fires cold stress
	HumidityDisease float64 `json:"humidity_disease"` // %, daily mean RH above this fires disease risk
}

// CropProfile is the static physiological reference data for one species.
// Profiles are immutable after construction; concurrent reads are safe.
type CropProfile struct {
	Name               string           `json:"name"`
	BaseTemperature    float64          `json:"base_temperature"`    // °C, no development below this
	OptimalTemperature float64          `json:"optimal_temperature"` // °C
	MaxTemperature     float64          `json:"max_temperature"`     // °C, development caps above this
	Kc                 KcCurve          `json:"crop_coefficient_curve"`
	StageDurations     map[string]int   `json:"stage_durations"` // stage → nominal days, reference data
	CriticalStages     []string         `json:"critical_stages"`
	Thresholds         StressThresholds `json:"stress_thresholds"`
}

// cropProfiles is the registry, keyed by crop name. Invariant for every entry:
// BaseTemperature < OptimalTemperature < MaxTemperature.
var cropProfiles = map[string]CropProfile{
	"Rice": {
		Name:               "Rice",
		BaseTemperature:    10.0,
		OptimalTemperature: 30.0,
		MaxTemperature:     40.0,
		Kc:                 KcCurve{Init: 1.05, Mid: 1.20, End: 0.90},
		StageDurations:     map[string]int{"vegetative": 50, "flowering": 30, "ripening": 30},
		CriticalStages:     []string{"flowering"},
		Thresholds: StressThresholds{
			Heat:            35.0, // sterility risk
			Cold:            15.0, // stunted growth
			HumidityDisease: 85.0, // blast warning
		},
	},
	"Maize": {
		Name:               "Maize",
		BaseTemperature:    10.0,
		OptimalTemperature: 25.0,
		MaxTemperature:     35.0,
		Kc:                 KcCurve{Init: 0.3, Mid: 1.2, End: 0.5},
		StageDurations:     map[string]int{"vegetative": 40, "flowering": 20, "ripening": 35},
		CriticalStages:     []string{"flowering"},
		Thresholds: StressThresholds{
			Heat:            32.0,
			Cold:            8.0,
			HumidityDisease: 90.0,
		},
	},
	"Wheat": {
		Name:               "Wheat",
		BaseTemperature:    0.0,
		OptimalTemperature: 21.0,
		MaxTemperature:     30.0,
		Kc:                 KcCurve{Init: 0.3, Mid: 1.15, End: 0.4},
		StageDurations:     map[string]int{"vegetative": 60, "flowering": 30, "ripening": 30},
		CriticalStages:     []string{"flowering", "grain_filling"},
		Thresholds: StressThresholds{
			Heat:            25.0,
			Cold:            -2.0,
			HumidityDisease: 80.0,
		},
	},
	"Potato": {
		Name:               "Potato",
		BaseTemperature:    2.0,
		OptimalTemperature: 18.0,
		MaxTemperature:     25.0,
		Kc:                 KcCurve{Init: 0.5, Mid: 1.15, End: 0.75},
		StageDurations:     map[string]int{"vegetative": 30, "tuber_initiation": 15, "bulking": 45},
		CriticalStages:     []string{"tuber_initiation"},
		Thresholds: StressThresholds{
			Heat:            28.0, // stops tuberization
			Cold:            0.0,  // frost damage
			HumidityDisease: 90.0, // blight
		},
	},
	"Tomato": {
		Name:               "Tomato",
		BaseTemperature:    10.0,
		OptimalTemperature: 22.0,
		MaxTemperature:     35.0,
		Kc:                 KcCurve{Init: 0.6, Mid: 1.15, End: 0.8},
		StageDurations:     map[string]int{"vegetative": 30, "flowering": 20, "fruiting": 40},
		CriticalStages:     []string{"flowering", "fruiting"},
		Thresholds: StressThresholds{
			Heat:            32.0,
			Cold:            10.0,
			HumidityDisease: 80.0,
		},
	},
}

// LookupProfile returns the profile for a crop name and whether it was found.
// Callers that want the degrade-gracefully behavior use [ProfileOrDefault].
func LookupProfile(name string) (CropProfile, bool) {
	p, ok := cropProfiles[name]
	return p, ok
}

// ProfileOrDefault returns the profile for a crop name, falling back to the
// Rice profile when the name is unknown. Unknown crops are not an error.
func ProfileOrDefault(name string) CropProfile {
	if p, ok := cropProfiles[name]; ok {
		return p
	}
	return cropProfiles[DefaultCrop]
}

// SupportedCrops returns the names of all registered crop profiles.
func SupportedCrops() []string {
	names := make([]string, 0, len(cropProfiles))
	for name := range cropProfiles {
		names = append(names, name)
	}
	return names
}
