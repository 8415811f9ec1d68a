package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyGDD(t *testing.T) {
	rice := ProfileOrDefault("Rice")
	wheat := ProfileOrDefault("Wheat")
	potato := ProfileOrDefault("Potato")

	tests := []struct {
		name     string
		profile  CropProfile
		tempMax  float64
		tempMin  float64
		expected float64
	}{
		{"rice warm day, no cutoff", rice, 38, 24, 21},   // mean 31 − base 10
		{"wheat heat cutoff", wheat, 41, 5, 30},          // 41 > 30 → max − base = 30
		{"below base accrues nothing", rice, 12, 4, 0},   // mean 8 < base 10
		{"mean exactly at base", rice, 14, 6, 0},         // mean 10 − 10 = 0
		{"cutoff regardless of min", potato, 26, -20, 23}, // 26 > 25 → 25 − 2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DailyGDD(tt.profile, tt.tempMax, tt.tempMin))
		})
	}
}

func TestDailyGDD_NeverNegative(t *testing.T) {
	for _, name := range SupportedCrops() {
		profile, ok := LookupProfile(name)
		require.True(t, ok)

		for tempMax := -30.0; tempMax <= 50; tempMax += 5 {
			for tempMin := -40.0; tempMin <= tempMax; tempMin += 5 {
				assert.GreaterOrEqual(t, DailyGDD(profile, tempMax, tempMin), 0.0,
					"crop %s tmax %.0f tmin %.0f", name, tempMax, tempMin)
			}
		}
	}
}
