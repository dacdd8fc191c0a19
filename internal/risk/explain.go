package risk

const (
	heatExplanation  = "High temperature levels increase heat stress risk."
	floodExplanation = "Heavy rainfall increases chances of flooding."
	airExplanation   = "Poor air quality can cause respiratory problems."
)

var roleExplanations = map[Role]string{
	RoleFarmer:   "Farmers are vulnerable to climate changes affecting crops.",
	RoleStudent:  "Students are sensitive to heat and air pollution exposure.",
	RoleHospital: "Hospitals require stable environmental conditions for patient safety.",
	RoleUrban:    "Urban areas have slower drainage which increases flood risk.",
}

// Explain returns one sentence per triggered hazard in heat, flood, air
// quality order, followed by the role sentence. Unknown roles get none.
func Explain(h HazardScores, role Role) []string {
	out := make([]string, 0, 4)
	if h.Heat >= TriggerThreshold {
		out = append(out, heatExplanation)
	}
	if h.Flood >= TriggerThreshold {
		out = append(out, floodExplanation)
	}
	if h.AirQuality >= TriggerThreshold {
		out = append(out, airExplanation)
	}
	if s, ok := roleExplanations[role]; ok {
		out = append(out, s)
	}
	return out
}
