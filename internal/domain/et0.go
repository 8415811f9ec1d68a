package domain

import "math"

// FallbackET0 is the fixed reference evapotranspiration (mm/day) returned
// when any required weather input is missing. A forecast built on a seasonal
// average beats no forecast at all, so missing data degrades rather than fails.
const FallbackET0 = 3.5

// wattsToMJPerDay converts a W/m² flux to MJ/m²/day.
const wattsToMJPerDay = 0.0864

// netRadiationFactor approximates net radiation as a fixed fraction of
// incoming shortwave (albedo 0.23).
const netRadiationFactor = 0.77

// ET0Input carries the daily weather inputs for the Penman-Monteith model.
// TempMin/TempMax/TempMean in °C, HumidityMean in %, WindSpeed in m/s at 2m,
// Elevation in metres, Radiation in W/m². LatitudeRad and DayOfYear are
// accepted for the extraterrestrial-radiation refinement but unused by the
// simplified net-radiation term. The model does not range-check physically
// implausible values (negative wind, RH outside [0,100]); that is the
// caller's responsibility.
type ET0Input struct {
	TempMin      float64
	TempMax      float64
	TempMean     float64
	HumidityMean float64
	WindSpeed    float64
	Elevation    float64
	Radiation    float64
	LatitudeRad  float64
	DayOfYear    int
}

// ComputeET0 returns the FAO-56 Penman-Monteith reference evapotranspiration
// in mm/day for one day's weather. If any of temp min/max/mean, humidity,
// wind, or radiation is NaN it returns [FallbackET0]. The result is clamped
// to be non-negative. Pure function of its inputs.
func ComputeET0(in ET0Input) float64 {
	if anyNaN(in.TempMin, in.TempMax, in.TempMean, in.HumidityMean, in.WindSpeed, in.Radiation) {
		return FallbackET0
	}

	// Atmospheric pressure at elevation, then psychrometric constant.
	pressure := 101.3 * math.Pow((293-0.0065*in.Elevation)/293, 5.26)
	gamma := 0.000665 * pressure

	// Vapor pressure deficit from saturation pressures at the daily extremes.
	es := (saturationVaporPressure(in.TempMax) + saturationVaporPressure(in.TempMin)) / 2
	ea := (in.HumidityMean / 100) * es
	vpd := math.Max(0, es-ea)

	delta := slopeSaturationCurve(in.TempMean)

	// Net radiation proxy: W/m² → MJ/m²/day, net of albedo. Soil heat flux
	// is taken as zero at a daily step.
	rn := in.Radiation * wattsToMJPerDay * netRadiationFactor
	g := 0.0

	numerator := 0.408*delta*(rn-g) + gamma*(900/(in.TempMean+273))*in.WindSpeed*vpd
	denominator := delta + gamma*(1+0.34*in.WindSpeed)

	return math.Max(0, numerator/denominator)
}

// saturationVaporPressure returns es in kPa at a temperature in °C
// (FAO-56 eq. 11).
func saturationVaporPressure(tempC float64) float64 {
	return 0.6108 * math.Exp((17.27*tempC)/(tempC+237.3))
}

// slopeSaturationCurve returns Δ, the slope of the saturation vapor pressure
// curve in kPa/°C at a temperature in °C (FAO-56 eq. 13).
func slopeSaturationCurve(tempC float64) float64 {
	return 4098 * saturationVaporPressure(tempC) / math.Pow(tempC+237.3, 2)
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
