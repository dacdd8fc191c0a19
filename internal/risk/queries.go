package risk

// Hazard names a scored hazard category.
type Hazard string

const (
	HazardHeat       Hazard = "heat"
	HazardFlood      Hazard = "flood"
	HazardAirQuality Hazard = "air_quality"
)

// queryTable holds the retrieval query for each (hazard, role). The empty
// role is the generic entry used for unknown roles.
var queryTable = map[Hazard]map[Role]string{
	HazardHeat: {
		RoleFarmer:   "heatwave protection techniques for crops and farmers",
		RoleStudent:  "student safety guidelines during heatwaves",
		RoleHospital: "hospital heatwave emergency response protocol",
		"":           "heatwave safety tips for urban residents",
	},
	HazardFlood: {
		RoleFarmer:   "flood protection measures for crops and agricultural land",
		RoleStudent:  "student safety during floods and heavy rainfall",
		RoleHospital: "hospital flood emergency preparedness plan",
		"":           "urban flood preparedness and evacuation safety",
	},
	HazardAirQuality: {
		RoleFarmer:   "air pollution impact on crops and farmer health safety",
		RoleStudent:  "student health protection during air pollution",
		RoleHospital: "hospital air quality management and patient protection",
		"":           "urban air pollution health protection measures",
	},
}

var fallbackQueries = map[Role]string{
	RoleFarmer:   "general climate safety and sustainable farming practices",
	RoleStudent:  "general climate awareness and student safety measures",
	RoleHospital: "general hospital disaster preparedness guidelines",
	"":           "general urban climate safety and preparedness tips",
}

func lookup(table map[Role]string, role Role) string {
	if q, ok := table[role]; ok {
		return q
	}
	return table[""]
}

// Queries returns one retrieval query per triggered hazard, in heat, flood,
// air quality order, or a single role fallback when nothing triggers.
// The result always holds between one and three queries.
func Queries(h HazardScores, role Role) []string {
	triggered := []struct {
		hazard Hazard
		score  int
	}{
		{HazardHeat, h.Heat},
		{HazardFlood, h.Flood},
		{HazardAirQuality, h.AirQuality},
	}

	out := make([]string, 0, len(triggered))
	for _, t := range triggered {
		if t.score >= TriggerThreshold {
			out = append(out, lookup(queryTable[t.hazard], role))
		}
	}
	if len(out) == 0 {
		out = append(out, lookup(fallbackQueries, role))
	}
	return out
}
