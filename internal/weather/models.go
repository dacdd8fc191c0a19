package weather

import (
	"fmt"
	"time"
)

// Coordinate is a geographic point in decimal degrees.
// No bounds are enforced beyond being finite.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Offset returns the coordinate shifted by the given deltas.
func (c Coordinate) Offset(dLat, dLon float64) Coordinate {
	return Coordinate{Lat: c.Lat + dLat, Lon: c.Lon + dLon}
}

// Key returns a canonical string key for logging and metrics.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Observation is the normalized environment view used for scoring.
type Observation struct {
	Temperature     float64 `json:"temperature"`
	Precipitation1h float64 `json:"precipitation_1h"`
	AirQualityIndex int     `json:"aqi"`

	// Providers contributing to this observation.
	Providers []ProviderContribution `json:"providers,omitempty"`
}

// ProviderContribution describes data coming from a single provider.
type ProviderContribution struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"`
}
