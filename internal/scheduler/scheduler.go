// Package scheduler runs the periodic readiness probe of the external
// dependencies a report needs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/climate-risk-assistant/internal/knowledge"
	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

const probeQuery = "general urban climate safety and preparedness tips"

// Status is the outcome of the latest probe.
type Status struct {
	Ready     bool      `json:"ready"`
	Failing   string    `json:"failing,omitempty"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Prober periodically observes a canary coordinate and queries the document
// store. With probing disabled it always reports ready.
type Prober struct {
	scheduler *gocron.Scheduler
	observer  risk.Observer
	store     knowledge.Store
	canary    weather.Coordinate
	interval  time.Duration
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *log.Logger
	metrics   *observability.Metrics

	mu     sync.RWMutex
	status Status
}

// New creates a Prober. A nil clock uses the real clock.
func New(
	observer risk.Observer,
	store knowledge.Store,
	canary weather.Coordinate,
	interval, timeout time.Duration,
	clock clockwork.Clock,
	logger *log.Logger,
	metrics *observability.Metrics,
) *Prober {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Prober{
		scheduler: gocron.NewScheduler(time.UTC),
		observer:  observer,
		store:     store,
		canary:    canary,
		interval:  interval,
		timeout:   timeout,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		status:    Status{Ready: interval <= 0},
	}
}

// Start schedules the probe, running it once immediately, and starts the
// underlying scheduler.
func (p *Prober) Start() error {
	if p.interval <= 0 {
		p.logger.Info("readiness probe disabled")
		return nil
	}

	_, err := p.scheduler.Every(p.interval).Do(func() {
		ctx := context.Background()
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		p.Check(ctx)
	})
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future probes.
func (p *Prober) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Check runs one probe, records it and returns the new status.
func (p *Prober) Check(ctx context.Context) Status {
	st := Status{Ready: true}

	_, err := p.observer.Observe(ctx, p.canary)
	p.recordObservation(err)
	if err != nil {
		st = failed(err, string(weather.DependencyWeather))
	}

	_, qerr := p.store.Query(ctx, probeQuery, 1)
	p.metrics.SetDependencyUp(string(weather.DependencyDocumentStore), qerr == nil)
	if qerr != nil && st.Ready {
		st = failed(qerr, string(weather.DependencyDocumentStore))
	}

	st.CheckedAt = p.clock.Now().UTC()
	if st.Ready {
		p.logger.Debug("readiness probe passed", "canary", p.canary.Key())
	} else {
		p.logger.Warn("readiness probe failed", "failing", st.Failing, "error", st.Error)
	}

	p.mu.Lock()
	p.status = st
	p.mu.Unlock()
	return st
}

// recordObservation sets the gauges of both environment dependencies. A
// failure marks only the dependency it names.
func (p *Prober) recordObservation(err error) {
	if err == nil {
		p.metrics.SetDependencyUp(string(weather.DependencyWeather), true)
		p.metrics.SetDependencyUp(string(weather.DependencyAirQuality), true)
		return
	}
	dep, ok := weather.DependencyOf(err)
	if !ok {
		dep = weather.DependencyWeather
	}
	p.metrics.SetDependencyUp(string(dep), false)
}

func failed(err error, fallback string) Status {
	dep := fallback
	if d, ok := weather.DependencyOf(err); ok {
		dep = string(d)
	}
	return Status{Failing: dep, Error: err.Error()}
}

// Status returns the latest probe result.
func (p *Prober) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
