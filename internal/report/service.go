package report

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/climate-risk-assistant/internal/knowledge"
	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// Comparer samples the neighborhood of a point. *risk.Comparator satisfies it.
type Comparer interface {
	Compare(ctx context.Context, center weather.Coordinate, role risk.Role, localScore int) (risk.Comparison, error)
}

// Retriever fetches guidance documents for queries. *knowledge.Retriever satisfies it.
type Retriever interface {
	RetrieveAll(ctx context.Context, queries []string) ([]knowledge.Document, error)
}

// Service produces risk reports.
type Service struct {
	observer       risk.Observer
	comparer       Comparer
	retriever      Retriever
	requestTimeout time.Duration
	logger         *log.Logger
	metrics        *observability.Metrics
}

// NewService creates a Service. A zero requestTimeout leaves the deadline to the caller.
func NewService(
	observer risk.Observer,
	comparer Comparer,
	retriever Retriever,
	requestTimeout time.Duration,
	logger *log.Logger,
	metrics *observability.Metrics,
) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		observer:       observer,
		comparer:       comparer,
		retriever:      retriever,
		requestTimeout: requestTimeout,
		logger:         logger,
		metrics:        metrics,
	}
}

// Generate builds the report for c and role. The center is observed and
// scored first; community comparison and guidance retrieval then run
// concurrently. Any dependency failure fails the whole report.
func (s *Service) Generate(ctx context.Context, c weather.Coordinate, role risk.Role) (RiskReport, error) {
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	r, err := s.generate(ctx, c, role)
	if err != nil {
		dep, _ := weather.DependencyOf(err)
		s.metrics.ObserveFailure(string(dep))
		s.logger.Error("risk report failed", "coordinate", c.Key(), "role", role, "dependency", dep, "error", err)
		return RiskReport{}, err
	}

	s.metrics.ObserveReport(string(r.RiskLevel), len(r.Sources))
	s.logger.Info("risk report generated",
		"coordinate", c.Key(),
		"role", role,
		"score", r.RiskScore,
		"level", r.RiskLevel,
		"sources", len(r.Sources),
	)
	return r, nil
}

func (s *Service) generate(ctx context.Context, c weather.Coordinate, role risk.Role) (RiskReport, error) {
	obs, err := s.observer.Observe(ctx, c)
	if err != nil {
		return RiskReport{}, fmt.Errorf("observe %s: %w", c.Key(), err)
	}

	if !role.Known() {
		s.logger.Debug("unrecognized role, using neutral weight", "role", role)
	}
	a := risk.Score(obs, role)
	explanation := risk.Explain(a.Hazards, role)
	queries := risk.Queries(a.Hazards, role)

	var (
		community risk.Comparison
		docs      []knowledge.Document
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		cmp, err := s.comparer.Compare(ectx, c, role, a.Total)
		if err != nil {
			return fmt.Errorf("compare community: %w", err)
		}
		community = cmp
		return nil
	})
	eg.Go(func() error {
		d, err := s.retriever.RetrieveAll(ectx, queries)
		if err != nil {
			return fmt.Errorf("retrieve guidance: %w", err)
		}
		docs = d
		return nil
	})
	if err := eg.Wait(); err != nil {
		return RiskReport{}, err
	}

	return Assemble(c, role, obs, a, explanation, community, docs), nil
}
