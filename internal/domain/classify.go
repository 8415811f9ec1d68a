package domain

// Growth stages in phenological order. With non-decreasing accumulated GDD
// the stage never regresses.
const (
	StageVegetative = "Vegetative"
	StageFlowering  = "Flowering"
	StageRipening   = "Ripening"
)

// GDD breakpoints between stages. Fixed across crops; per-crop StageDurations
// remain reference data until a calibration pass derives crop-specific
// targets from them.
const (
	floweringGDD = 400
	ripeningGDD  = 800
)

// Risk types and severities.
const (
	RiskHeatStress = "Heat Stress"
	RiskColdStress = "Cold Stress"
	RiskDisease    = "Disease Risk"
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// Risk is one stress flag on a forecast day.
type Risk struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ClassifyStage maps accumulated thermal time to a coarse growth stage.
func ClassifyStage(accumulatedGDD float64) string {
	switch {
	case accumulatedGDD > ripeningGDD:
		return StageRipening
	case accumulatedGDD > floweringGDD:
		return StageFlowering
	default:
		return StageVegetative
	}
}

// StressRisks evaluates the day's temperature extremes against the crop's
// thresholds. Heat and cold are checked independently, in that order, and
// both may fire on the same day. The result may be empty.
func StressRisks(profile CropProfile, tempMax, tempMin float64) []Risk {
	var risks []Risk
	if tempMax > profile.Thresholds.Heat {
		risks = append(risks, Risk{
			Type:        RiskHeatStress,
			Severity:    SeverityHigh,
			Description: "temperature exceeded the crop's heat threshold",
		})
	}
	if tempMin < profile.Thresholds.Cold {
		risks = append(risks, Risk{
			Type:        RiskColdStress,
			Severity:    SeverityMedium,
			Description: "temperature below cold threshold slows growth",
		})
	}
	return risks
}

// DiseaseRisk flags sustained high humidity, the profile's disease trigger
// (rice blast, potato blight). Returns ok=false when the day's mean humidity
// does not exceed the threshold.
func DiseaseRisk(profile CropProfile, humidityMean float64) (Risk, bool) {
	if humidityMean <= profile.Thresholds.HumidityDisease {
		return Risk{}, false
	}
	return Risk{
		Type:        RiskDisease,
		Severity:    SeverityMedium,
		Description: "sustained humidity favors fungal disease",
	}, true
}
