package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// OpenWeatherProvider implements weather.WeatherProvider and weather.AirQualityProvider
// for OpenWeatherMap. Its air pollution index already uses the 1-5 scale.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig

	// One breaker per endpoint so an outage of one does not block the other.
	weatherCircuit *gobreaker.CircuitBreaker
	airCircuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		httpCfg: defaultHTTPConfig(client),

		weatherCircuit: newCircuitBreaker("openweather"),
		airCircuit:     newCircuitBreaker("openweather-air"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) endpoint(path string, c weather.Coordinate) string {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	if path == "weather" {
		values.Set("units", "metric")
	}
	return fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
}

func (p *OpenWeatherProvider) FetchWeather(ctx context.Context, c weather.Coordinate) (weather.WeatherReading, error) {
	if p.apiKey == "" {
		return weather.WeatherReading{}, fmt.Errorf("openweather: %w", errNotConfigured)
	}

	var payload struct {
		Dt   int64 `json:"dt"`
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Rain *struct {
			OneH float64 `json:"1h"`
		} `json:"rain"`
	}

	if err := getJSON(ctx, p.httpCfg, p.weatherCircuit, p.endpoint("weather", c), &payload); err != nil {
		return weather.WeatherReading{}, err
	}

	if payload.Main == nil || payload.Main.Temp == nil {
		return weather.WeatherReading{}, fmt.Errorf("%w: main.temp", weather.ErrMissingField)
	}

	// Absent rain block means no rain in the last hour.
	var precip float64
	if payload.Rain != nil {
		precip = payload.Rain.OneH
	}

	return weather.WeatherReading{
		ProviderName: p.name,
		Timestamp:    timestampOrNow(payload.Dt),
		TemperatureC: *payload.Main.Temp,
		PrecipMm:     precip,
	}, nil
}

func (p *OpenWeatherProvider) FetchAirQuality(ctx context.Context, c weather.Coordinate) (weather.AirQualityReading, error) {
	if p.apiKey == "" {
		return weather.AirQualityReading{}, fmt.Errorf("openweather: %w", errNotConfigured)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main *struct {
				AQI *int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}

	if err := getJSON(ctx, p.httpCfg, p.airCircuit, p.endpoint("air_pollution", c), &payload); err != nil {
		return weather.AirQualityReading{}, err
	}

	if len(payload.List) == 0 || payload.List[0].Main == nil || payload.List[0].Main.AQI == nil {
		return weather.AirQualityReading{}, fmt.Errorf("%w: list[0].main.aqi", weather.ErrMissingField)
	}

	return weather.AirQualityReading{
		ProviderName: p.name,
		Timestamp:    timestampOrNow(payload.List[0].Dt),
		Index:        *payload.List[0].Main.AQI,
	}, nil
}
