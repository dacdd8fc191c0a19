// Package report assembles climate risk reports from observations, scores,
// community comparison and retrieved guidance.
package report

import (
	"github.com/i474232898/climate-risk-assistant/internal/knowledge"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// Location is the requested point.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RiskReport is the response of a single report request.
type RiskReport struct {
	Location            Location          `json:"location"`
	UserType            string            `json:"user_type"`
	Temperature         float64           `json:"temperature"`
	AQI                 int               `json:"aqi"`
	RiskScore           int               `json:"risk_score"`
	RiskLevel           risk.Level        `json:"risk_level"`
	RiskBreakdown       risk.HazardScores `json:"risk_breakdown"`
	Explanation         []string          `json:"explanation"`
	CommunityComparison risk.Comparison   `json:"community_comparison"`
	Recommendations     []string          `json:"recommendations"`
	Sources             []string          `json:"sources"`
}

// Assemble packages the pipeline outputs into a RiskReport. Recommendations
// are formatted from docs and sources follow the order of docs.
func Assemble(
	c weather.Coordinate,
	role risk.Role,
	obs weather.Observation,
	a risk.Assessment,
	explanation []string,
	community risk.Comparison,
	docs []knowledge.Document,
) RiskReport {
	if explanation == nil {
		explanation = []string{}
	}
	return RiskReport{
		Location:            Location{Lat: c.Lat, Lon: c.Lon},
		UserType:            string(role),
		Temperature:         obs.Temperature,
		AQI:                 obs.AirQualityIndex,
		RiskScore:           a.Total,
		RiskLevel:           a.Level,
		RiskBreakdown:       a.Hazards,
		Explanation:         explanation,
		CommunityComparison: community,
		Recommendations:     knowledge.FormatRecommendations(docs),
		Sources:             knowledge.Sources(docs),
	}
}
