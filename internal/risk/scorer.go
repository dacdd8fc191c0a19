// Package risk turns environment observations into hazard scores, a weighted
// total and the role-aware text derived from them.
package risk

import "github.com/i474232898/climate-risk-assistant/internal/weather"

// Level is the coarse risk tier derived from the total score.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
)

// Hazard scores are integers in [1,4]; a hazard is triggered at 3.
const (
	MinHazardScore   = 1
	MaxHazardScore   = 4
	TriggerThreshold = 3
)

// HazardScores is the per-hazard breakdown.
type HazardScores struct {
	Heat       int `json:"heat"`
	Flood      int `json:"flood"`
	AirQuality int `json:"air_quality"`
}

// Sum returns heat + flood + air quality.
func (h HazardScores) Sum() int {
	return h.Heat + h.Flood + h.AirQuality
}

// Assessment is the scorer output for one observation and role.
type Assessment struct {
	Hazards       HazardScores
	Vulnerability float64
	Total         int
	Level         Level
}

// HeatScore maps temperature in °C to a hazard score.
func HeatScore(tempC float64) int {
	switch {
	case tempC >= 40:
		return 4
	case tempC >= 35:
		return 3
	case tempC >= 30:
		return 2
	default:
		return 1
	}
}

// FloodScore maps last-hour precipitation in mm to a hazard score.
func FloodScore(precipMm float64) int {
	switch {
	case precipMm >= 30:
		return 4
	case precipMm >= 20:
		return 3
	case precipMm >= 10:
		return 2
	default:
		return 1
	}
}

// AirQualityScore maps the 1-5 air-quality index to a hazard score.
func AirQualityScore(index int) int {
	switch {
	case index >= 5:
		return 4
	case index >= 4:
		return 3
	case index >= 3:
		return 2
	default:
		return 1
	}
}

// LevelFor maps a total score to its tier. Lower bounds are inclusive.
func LevelFor(total int) Level {
	switch {
	case total >= 9:
		return LevelHigh
	case total >= 5:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Score computes the hazard breakdown and the vulnerability-weighted total.
// The total is truncated, never rounded.
func Score(obs weather.Observation, role Role) Assessment {
	h := HazardScores{
		Heat:       HeatScore(obs.Temperature),
		Flood:      FloodScore(obs.Precipitation1h),
		AirQuality: AirQualityScore(obs.AirQualityIndex),
	}
	w := Vulnerability(role)
	total := int(float64(h.Sum()) * w)

	return Assessment{
		Hazards:       h,
		Vulnerability: w,
		Total:         total,
		Level:         LevelFor(total),
	}
}
