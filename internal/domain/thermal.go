package domain

import "math"

// DailyGDD returns the growing-degree-days accrued on a day with the given
// temperature extremes. Development is the daily mean above the crop's base
// temperature, never negative. When the daily max exceeds the crop's ceiling
// the day is capped at the full base-to-ceiling span rather than penalized:
// heat halts development, it does not reverse it.
func DailyGDD(profile CropProfile, tempMax, tempMin float64) float64 {
	tempMean := (tempMax + tempMin) / 2
	gdd := math.Max(0, tempMean-profile.BaseTemperature)

	if tempMax > profile.MaxTemperature {
		gdd = math.Max(0, profile.MaxTemperature-profile.BaseTemperature)
	}
	return gdd
}
