// Package domain implements the agronomic forecast core: reference
// evapotranspiration, thermal-time accumulation, growth-stage inference, and
// stress-risk flags for a multi-day weather forecast and a crop.
//
// # Evapotranspiration (ET0)
//
// ET0 is the water-loss rate (mm/day) of a well-watered reference grass
// surface, computed with the FAO-56 Penman-Monteith combination equation:
//
//	P  = 101.3 · ((293 − 0.0065·elev)/293)^5.26          atmospheric pressure, kPa
//	γ  = 0.000665 · P                                    psychrometric constant
//	es(T) = 0.6108 · exp(17.27·T / (T+237.3))            saturation vapor pressure
//	es = (es(Tmax) + es(Tmin)) / 2,  ea = RH/100 · es
//	Δ  = 4098 · es(Tmean) / (Tmean+237.3)²
//	Rn = radiation · 0.0864 · 0.77                       W/m² → MJ/m²/day, net of albedo
//	ET0 = [0.408·Δ·Rn + γ·(900/(Tmean+273))·u·VPD] / [Δ + γ·(1+0.34·u)]
//
// Soil heat flux is zero at a daily step. Any missing input degrades to a
// fixed 3.5 mm/day rather than failing: a forecast with partial data is more
// useful than no forecast.
//
// # Thermal time (GDD)
//
// Growing-degree-days proxy developmental progress: the daily mean
// temperature above the crop's base temperature, never negative. Days hotter
// than the crop's ceiling are capped at the base-to-ceiling span. Accumulation
// is strictly additive across a run.
//
// # Stages and risks
//
// Accumulated GDD maps to a coarse stage: Vegetative, then Flowering past
// 400, then Ripening past 800. The breakpoints are fixed across crops; each
// profile's per-stage day counts are carried as reference data only. Heat stress (daily max above the crop's heat
// threshold) and cold stress (daily min below the cold threshold) are flagged
// independently, heat first. Sustained high humidity additionally flags
// fungal disease risk when hourly humidity data is available.
//
// # Units and conventions
//
// Temperatures °C, humidity %, wind m/s, radiation W/m², elevation m. Hourly
// samples are matched to forecast days by UTC calendar date, never by slice
// position. Missing hourly samples are NaN. The first forecast day is day 1
// of an assumed in-progress season; the planting date defaults to "today"
// via an injectable clock (see [SetClock]).
//
// The package is pure and synchronous: no I/O, no shared mutable state, no
// locking. One analysis run owns its accumulator exclusively.
package domain
