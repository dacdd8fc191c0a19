package weather

import (
	"context"
	"time"
)

// WeatherReading represents a single provider's normalized weather reading
// that can be aggregated into an Observation.
type WeatherReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	// PrecipMm is the precipitation over the last hour; providers report 0 when absent.
	PrecipMm float64
}

// AirQualityReading is a categorical air-quality index on the 1-5 scale.
type AirQualityReading struct {
	ProviderName string
	Timestamp    time.Time
	Index        int
}

// WeatherProvider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type WeatherProvider interface {
	Name() string
	FetchWeather(ctx context.Context, c Coordinate) (WeatherReading, error)
}

// AirQualityProvider abstracts an air-quality data source.
type AirQualityProvider interface {
	Name() string
	FetchAirQuality(ctx context.Context, c Coordinate) (AirQualityReading, error)
}
