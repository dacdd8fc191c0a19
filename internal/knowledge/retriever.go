package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// Retriever dispatches generated queries to a Store.
type Retriever struct {
	store       Store
	topK        int
	callTimeout time.Duration
	logger      *log.Logger
	metrics     *observability.Metrics
}

// NewRetriever creates a Retriever over store. A non-positive topK uses
// DefaultTopK; a zero callTimeout disables per-query deadlines.
func NewRetriever(store Store, topK int, callTimeout time.Duration, logger *log.Logger, metrics *observability.Metrics) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Retriever{
		store:       store,
		topK:        topK,
		callTimeout: callTimeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// RetrieveAll issues one store query per entry of queries concurrently and
// returns the results in query order, dropping documents whose text was
// already seen. Any store failure fails the whole call.
func (r *Retriever) RetrieveAll(ctx context.Context, queries []string) ([]Document, error) {
	results := make([][]Document, len(queries))

	eg, ectx := errgroup.WithContext(ctx)
	for i, q := range queries {
		eg.Go(func() error {
			docs, err := r.query(ectx, q)
			if err != nil {
				return err
			}
			results[i] = docs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return Dedupe(results...), nil
}

func (r *Retriever) query(ctx context.Context, q string) ([]Document, error) {
	cctx := ctx
	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}

	start := time.Now()
	docs, err := r.store.Query(cctx, q, r.topK)
	r.metrics.ObserveProviderCall(r.store.Name(), time.Since(start), err)

	if err != nil {
		r.logger.Warn("document store query failed", "store", r.store.Name(), "query", q, "error", err)
		return nil, weather.NewProviderError(weather.DependencyDocumentStore, r.store.Name(),
			fmt.Errorf("query %q: %w", q, err))
	}
	r.logger.Debug("document store query", "store", r.store.Name(), "query", q, "documents", len(docs))
	return docs, nil
}

// Dedupe flattens groups in order and keeps only the first document for each
// distinct text, together with its source.
func Dedupe(groups ...[]Document) []Document {
	seen := make(map[string]struct{})
	out := make([]Document, 0)
	for _, g := range groups {
		for _, d := range g {
			if _, ok := seen[d.Text]; ok {
				continue
			}
			seen[d.Text] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// Sources returns the source identifiers of docs in order.
func Sources(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.SourceID
	}
	return out
}
