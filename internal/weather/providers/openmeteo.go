package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// OpenMeteoProvider implements the weather.WeatherProvider interface for Open-Meteo.
// It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchWeather(ctx context.Context, c weather.Coordinate) (weather.WeatherReading, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	// Current conditions are 15-minute values; rainfall comes from the last full hour.
	values.Set("current", "temperature_2m")
	values.Set("hourly", "precipitation")
	values.Set("past_hours", "1")
	values.Set("forecast_hours", "0")
	values.Set("timeformat", "unixtime")
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	var payload struct {
		Current *struct {
			Time        int64    `json:"time"`
			Temperature *float64 `json:"temperature_2m"`
		} `json:"current"`
		Hourly struct {
			Precipitation []*float64 `json:"precipitation"`
		} `json:"hourly"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.WeatherReading{}, err
	}

	if payload.Current == nil || payload.Current.Temperature == nil {
		return weather.WeatherReading{}, fmt.Errorf("%w: current.temperature_2m", weather.ErrMissingField)
	}

	ts := time.Now().UTC()
	if payload.Current.Time > 0 {
		ts = time.Unix(payload.Current.Time, 0).UTC()
	}

	return weather.WeatherReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: *payload.Current.Temperature,
		PrecipMm:     lastHourPrecipitation(payload.Hourly.Precipitation),
	}, nil
}

// lastHourPrecipitation returns the most recent hourly total. No data counts as no rain.
func lastHourPrecipitation(hourly []*float64) float64 {
	if len(hourly) == 0 || hourly[len(hourly)-1] == nil {
		return 0
	}
	return *hourly[len(hourly)-1]
}
