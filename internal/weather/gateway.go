package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/climate-risk-assistant/internal/observability"
)

var errNoWeatherProviders = errors.New("no weather providers configured")

// Gateway fetches weather and air quality for a coordinate and normalizes them
// into a single Observation.
type Gateway struct {
	weather     []WeatherProvider
	air         AirQualityProvider
	callTimeout time.Duration
	logger      *log.Logger
	metrics     *observability.Metrics
}

// NewGateway creates a new Gateway. A zero callTimeout disables per-call deadlines.
func NewGateway(
	weatherProviders []WeatherProvider,
	air AirQualityProvider,
	callTimeout time.Duration,
	logger *log.Logger,
	metrics *observability.Metrics,
) *Gateway {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Gateway{
		weather:     weatherProviders,
		air:         air,
		callTimeout: callTimeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// Observe fetches weather from all providers and the air-quality index
// concurrently. Weather readings from the providers that succeed are averaged;
// the call fails if no weather provider succeeds or the air-quality index
// cannot be obtained.
func (g *Gateway) Observe(ctx context.Context, c Coordinate) (Observation, error) {
	var (
		obs Observation
		aqi AirQualityReading
	)

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		o, err := g.fetchWeather(ectx, c)
		if err != nil {
			return err
		}
		obs = o
		return nil
	})
	eg.Go(func() error {
		r, err := g.fetchAirQuality(ectx, c)
		if err != nil {
			return err
		}
		aqi = r
		return nil
	})
	if err := eg.Wait(); err != nil {
		return Observation{}, err
	}

	obs.AirQualityIndex = aqi.Index
	obs.Providers = append(obs.Providers, ProviderContribution{
		ProviderName: aqi.ProviderName,
		Timestamp:    aqi.Timestamp,
	})
	return obs, nil
}

func (g *Gateway) fetchWeather(ctx context.Context, c Coordinate) (Observation, error) {
	if len(g.weather) == 0 {
		g.logger.Error("no weather providers available", "coordinate", c.Key())
		return Observation{}, NewProviderError(DependencyWeather, "", errNoWeatherProviders)
	}

	readings := make([]*WeatherReading, len(g.weather))
	errs := make([]error, len(g.weather))

	var eg errgroup.Group
	for i, p := range g.weather {
		eg.Go(func() error {
			errs[i] = g.call(ctx, p.Name(), func(cctx context.Context) error {
				r, err := p.FetchWeather(cctx, c)
				if err != nil {
					return err
				}
				readings[i] = &r
				return nil
			})
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return Observation{}, NewProviderError(DependencyWeather, "", err)
	}

	ok := make([]WeatherReading, 0, len(readings))
	for i, r := range readings {
		if r == nil {
			// Log and continue; partial success is fine when at least one provider answers.
			g.logger.Warn("weather provider fetch failed", "provider", g.weather[i].Name(), "coordinate", c.Key(), "error", errs[i])
			continue
		}
		ok = append(ok, *r)
	}

	if len(ok) == 0 {
		return Observation{}, NewProviderError(DependencyWeather, "", errors.Join(errs...))
	}

	g.logger.Debug("weather aggregated", "coordinate", c.Key(), "providers", len(ok))
	return AggregateReadings(ok), nil
}

func (g *Gateway) fetchAirQuality(ctx context.Context, c Coordinate) (AirQualityReading, error) {
	if g.air == nil {
		return AirQualityReading{}, NewProviderError(DependencyAirQuality, "", errors.New("no air quality provider configured"))
	}

	var reading AirQualityReading
	err := g.call(ctx, g.air.Name(), func(cctx context.Context) error {
		r, err := g.air.FetchAirQuality(cctx, c)
		if err != nil {
			return err
		}
		reading = r
		return nil
	})
	if err != nil {
		g.logger.Warn("air quality fetch failed", "provider", g.air.Name(), "coordinate", c.Key(), "error", err)
		return AirQualityReading{}, NewProviderError(DependencyAirQuality, g.air.Name(), err)
	}
	if reading.Index <= 0 {
		return AirQualityReading{}, NewProviderError(DependencyAirQuality, g.air.Name(),
			fmt.Errorf("%w: air quality index", ErrMissingField))
	}
	return reading, nil
}

// call runs fn under the per-call deadline and records metrics.
func (g *Gateway) call(ctx context.Context, provider string, fn func(context.Context) error) error {
	cctx := ctx
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(cctx)
	g.metrics.ObserveProviderCall(provider, time.Since(start), err)
	return err
}
