package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/i474232898/climate-risk-assistant/internal/observability"
)

type fakeWeather struct {
	name  string
	temp  float64
	rain  float64
	err   error
	delay time.Duration
}

func (f *fakeWeather) Name() string { return f.name }

func (f *fakeWeather) FetchWeather(ctx context.Context, _ Coordinate) (WeatherReading, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return WeatherReading{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return WeatherReading{}, f.err
	}
	return WeatherReading{ProviderName: f.name, Timestamp: time.Now().UTC(), TemperatureC: f.temp, PrecipMm: f.rain}, nil
}

type fakeAir struct {
	index int
	err   error
}

func (f *fakeAir) Name() string { return "fake-air" }

func (f *fakeAir) FetchAirQuality(_ context.Context, _ Coordinate) (AirQualityReading, error) {
	if f.err != nil {
		return AirQualityReading{}, f.err
	}
	return AirQualityReading{ProviderName: "fake-air", Index: f.index}, nil
}

var point = Coordinate{Lat: 12.97, Lon: 77.59}

func newTestGateway(w []WeatherProvider, a AirQualityProvider, timeout time.Duration) *Gateway {
	return NewGateway(w, a, timeout, observability.NopLogger(), observability.NewMetricsForTesting())
}

func TestGateway_Observe_AveragesProviders(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newTestGateway([]WeatherProvider{
		&fakeWeather{name: "a", temp: 30, rain: 10},
		&fakeWeather{name: "b", temp: 32, rain: 20},
	}, &fakeAir{index: 3}, time.Second)

	obs, err := g.Observe(context.Background(), point)
	require.NoError(t, err)
	assert.Equal(t, 31.0, obs.Temperature)
	assert.Equal(t, 15.0, obs.Precipitation1h)
	assert.Equal(t, 3, obs.AirQualityIndex)
	require.Len(t, obs.Providers, 3)
	assert.Equal(t, "a", obs.Providers[0].ProviderName)
	assert.Equal(t, "b", obs.Providers[1].ProviderName)
	assert.Equal(t, "fake-air", obs.Providers[2].ProviderName)
}

func TestGateway_Observe_PartialWeatherFailure(t *testing.T) {
	g := newTestGateway([]WeatherProvider{
		&fakeWeather{name: "down", err: errors.New("boom")},
		&fakeWeather{name: "up", temp: 29.5, rain: 25},
	}, &fakeAir{index: 3}, time.Second)

	obs, err := g.Observe(context.Background(), point)
	require.NoError(t, err)
	assert.Equal(t, 29.5, obs.Temperature)
	assert.Equal(t, 25.0, obs.Precipitation1h)
}

func TestGateway_Observe_AllWeatherProvidersFail(t *testing.T) {
	g := newTestGateway([]WeatherProvider{
		&fakeWeather{name: "a", err: errors.New("boom")},
		&fakeWeather{name: "b", err: errors.New("bang")},
	}, &fakeAir{index: 3}, time.Second)

	_, err := g.Observe(context.Background(), point)
	require.ErrorIs(t, err, ErrProviderUnavailable)

	dep, ok := DependencyOf(err)
	require.True(t, ok)
	assert.Equal(t, DependencyWeather, dep)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "bang")
}

func TestGateway_Observe_NoWeatherProviders(t *testing.T) {
	g := newTestGateway(nil, &fakeAir{index: 3}, time.Second)

	_, err := g.Observe(context.Background(), point)
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestGateway_Observe_MissingAirQualityIndex(t *testing.T) {
	g := newTestGateway([]WeatherProvider{&fakeWeather{name: "a", temp: 25}}, &fakeAir{index: 0}, time.Second)

	_, err := g.Observe(context.Background(), point)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	require.ErrorIs(t, err, ErrMissingField)

	dep, _ := DependencyOf(err)
	assert.Equal(t, DependencyAirQuality, dep)
}

func TestGateway_Observe_AirQualityProviderError(t *testing.T) {
	g := newTestGateway([]WeatherProvider{&fakeWeather{name: "a", temp: 25}}, &fakeAir{err: errors.New("503")}, time.Second)

	_, err := g.Observe(context.Background(), point)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, DependencyAirQuality, pe.Dependency)
	assert.Equal(t, "fake-air", pe.Provider)
}

func TestGateway_Observe_TimeoutIsProviderUnavailable(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newTestGateway([]WeatherProvider{
		&fakeWeather{name: "slow", temp: 25, delay: time.Second},
	}, &fakeAir{index: 2}, 20*time.Millisecond)

	_, err := g.Observe(context.Background(), point)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.True(t, IsTimeout(err))
}

func TestGateway_Observe_CancelledRequest(t *testing.T) {
	g := newTestGateway([]WeatherProvider{
		&fakeWeather{name: "slow", temp: 25, delay: time.Second},
	}, &fakeAir{index: 2}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Observe(ctx, point)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoordinate_Offset(t *testing.T) {
	c := Coordinate{Lat: 10, Lon: 20}

	north := c.Offset(0.05, 0)
	assert.InDelta(t, 10.05, north.Lat, 1e-9)
	assert.Equal(t, 20.0, north.Lon)

	west := c.Offset(0, -0.05)
	assert.Equal(t, 10.0, west.Lat)
	assert.InDelta(t, 19.95, west.Lon, 1e-9)
}
