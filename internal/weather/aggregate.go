package weather

import "time"

// AggregateReadings combines multiple provider readings into a single Observation.
// Temperature and precipitation are averaged; the air-quality index is left to the caller.
func AggregateReadings(readings []WeatherReading) Observation {
	if len(readings) == 0 {
		return Observation{}
	}

	var (
		sumTemp   float64
		sumPrecip float64
	)

	providers := make([]ProviderContribution, 0, len(readings))

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumPrecip += r.PrecipMm

		ts := r.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			Timestamp:    ts,
		})
	}

	n := float64(len(readings))

	return Observation{
		Temperature:     sumTemp / n,
		Precipitation1h: sumPrecip / n,
		Providers:       providers,
	}
}
