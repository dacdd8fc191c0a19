package providers

import (
	"context"
	"time"

	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// Demo readings served in static mode: light rain over Bengaluru.
const (
	StaticTemperatureC = 29.5
	StaticPrecipMm     = 25
	StaticAQI          = 3
)

// StaticProvider returns the same readings for every coordinate. It lets the
// whole pipeline run without provider API keys.
type StaticProvider struct {
	TemperatureC float64
	PrecipMm     float64
	AQI          int
}

// NewStaticProvider returns a provider serving the demo readings.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		TemperatureC: StaticTemperatureC,
		PrecipMm:     StaticPrecipMm,
		AQI:          StaticAQI,
	}
}

func (p *StaticProvider) Name() string {
	return "static"
}

func (p *StaticProvider) FetchWeather(ctx context.Context, _ weather.Coordinate) (weather.WeatherReading, error) {
	if err := ctx.Err(); err != nil {
		return weather.WeatherReading{}, err
	}
	return weather.WeatherReading{
		ProviderName: p.Name(),
		Timestamp:    time.Now().UTC(),
		TemperatureC: p.TemperatureC,
		PrecipMm:     p.PrecipMm,
	}, nil
}

func (p *StaticProvider) FetchAirQuality(ctx context.Context, _ weather.Coordinate) (weather.AirQualityReading, error) {
	if err := ctx.Err(); err != nil {
		return weather.AirQualityReading{}, err
	}
	return weather.AirQualityReading{
		ProviderName: p.Name(),
		Timestamp:    time.Now().UTC(),
		Index:        p.AQI,
	}, nil
}
