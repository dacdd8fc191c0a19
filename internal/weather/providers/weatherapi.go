package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// WeatherAPIProvider implements the weather.WeatherProvider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchWeather(ctx context.Context, c weather.Coordinate) (weather.WeatherReading, error) {
	if p.apiKey == "" {
		return weather.WeatherReading{}, fmt.Errorf("weatherapi: %w", errNotConfigured)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location and accepts "lat,lon".
	values.Set("q", fmt.Sprintf("%f,%f", c.Lat, c.Lon))
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload struct {
		Current *struct {
			LastUpdatedEpoch int64    `json:"last_updated_epoch"`
			TempC            *float64 `json:"temp_c"`
			PrecipMm         float64  `json:"precip_mm"`
		} `json:"current"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.WeatherReading{}, err
	}

	if payload.Current == nil || payload.Current.TempC == nil {
		return weather.WeatherReading{}, fmt.Errorf("%w: current.temp_c", weather.ErrMissingField)
	}

	return weather.WeatherReading{
		ProviderName: p.name,
		Timestamp:    timestampOrNow(payload.Current.LastUpdatedEpoch),
		TemperatureC: *payload.Current.TempC,
		PrecipMm:     payload.Current.PrecipMm,
	}, nil
}
