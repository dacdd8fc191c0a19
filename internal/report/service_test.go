package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/i474232898/climate-risk-assistant/internal/knowledge"
	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
	"github.com/i474232898/climate-risk-assistant/internal/weather/providers"
)

type queryStore struct {
	docs map[string][]knowledge.Document
	err  error
}

func (s *queryStore) Name() string { return "test" }

func (s *queryStore) Query(_ context.Context, text string, _ int) ([]knowledge.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs[text], nil
}

func (s *queryStore) Close() error { return nil }

const floodGuide = `Flood preparedness:
- Keep important documents in waterproof bags.
- Never drive through flooded roads.
ok.`

func newTestService(t *testing.T, store knowledge.Store, metrics *observability.Metrics) *Service {
	t.Helper()
	static := providers.NewStaticProvider()
	gw := weather.NewGateway([]weather.WeatherProvider{static}, static, time.Second, nil, metrics)
	return NewService(
		gw,
		risk.NewComparator(gw, 0),
		knowledge.NewRetriever(store, 0, time.Second, nil, metrics),
		5*time.Second,
		nil,
		metrics,
	)
}

func TestGenerate_DemoReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	metrics := observability.NewMetricsForTesting()
	store := &queryStore{docs: map[string][]knowledge.Document{
		"urban flood preparedness and evacuation safety": {{Text: floodGuide, SourceID: "urban_flood_guide.pdf"}},
	}}
	svc := newTestService(t, store, metrics)

	r, err := svc.Generate(context.Background(), weather.Coordinate{Lat: 12.9716, Lon: 77.5946}, risk.RoleUrban)
	require.NoError(t, err)

	assert.Equal(t, Location{Lat: 12.9716, Lon: 77.5946}, r.Location)
	assert.Equal(t, "urban", r.UserType)
	assert.Equal(t, 29.5, r.Temperature)
	assert.Equal(t, 3, r.AQI)
	assert.Equal(t, risk.HazardScores{Heat: 1, Flood: 3, AirQuality: 2}, r.RiskBreakdown)
	assert.Equal(t, 6, r.RiskScore)
	assert.Equal(t, risk.LevelModerate, r.RiskLevel)
	assert.Equal(t, []string{
		"Heavy rainfall increases chances of flooding.",
		"Urban areas have slower drainage which increases flood risk.",
	}, r.Explanation)
	assert.Equal(t, risk.Comparison{LocalScore: 6, NeighborAverage: 6, Status: risk.StatusSimilar}, r.CommunityComparison)
	assert.Equal(t, []string{
		"Keep important documents in waterproof bags.",
		"Never drive through flooded roads.",
	}, r.Recommendations)
	assert.Equal(t, []string{"urban_flood_guide.pdf"}, r.Sources)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportsGenerated.WithLabelValues("Moderate")))
}

func TestGenerate_JSONFields(t *testing.T) {
	svc := newTestService(t, &queryStore{}, nil)

	r, err := svc.Generate(context.Background(), weather.Coordinate{Lat: 1, Lon: 2}, "fisherman")
	require.NoError(t, err)

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	for _, k := range []string{
		"location", "user_type", "temperature", "aqi", "risk_score", "risk_level",
		"risk_breakdown", "explanation", "community_comparison", "recommendations", "sources",
	} {
		assert.Contains(t, got, k)
	}
	assert.Equal(t, map[string]any{"heat": 1.0, "flood": 3.0, "air_quality": 2.0}, got["risk_breakdown"])
	assert.Equal(t, map[string]any{
		"your_risk":           6.0,
		"nearby_average_risk": 6.0,
		"status":              string(risk.StatusSimilar),
	}, got["community_comparison"])
	assert.Equal(t, []any{}, got["recommendations"])
	assert.Equal(t, []any{}, got["sources"])
}

func TestGenerate_StoreFailureFailsReport(t *testing.T) {
	defer goleak.VerifyNone(t)

	metrics := observability.NewMetricsForTesting()
	svc := newTestService(t, &queryStore{err: errors.New("index offline")}, metrics)

	_, err := svc.Generate(context.Background(), weather.Coordinate{Lat: 1, Lon: 2}, risk.RoleFarmer)
	require.ErrorIs(t, err, weather.ErrProviderUnavailable)

	dep, ok := weather.DependencyOf(err)
	require.True(t, ok)
	assert.Equal(t, weather.DependencyDocumentStore, dep)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportFailures.WithLabelValues("document_store")))
}

type failingObserver struct{ err error }

func (f failingObserver) Observe(context.Context, weather.Coordinate) (weather.Observation, error) {
	return weather.Observation{}, f.err
}

func TestGenerate_CenterFailureSkipsRetrieval(t *testing.T) {
	boom := weather.NewProviderError(weather.DependencyAirQuality, "openweathermap", weather.ErrMissingField)
	store := &queryStore{err: errors.New("must not be queried")}
	svc := NewService(
		failingObserver{err: boom},
		risk.NewComparator(failingObserver{err: boom}, 0),
		knowledge.NewRetriever(store, 0, 0, nil, nil),
		0, nil, nil,
	)

	_, err := svc.Generate(context.Background(), weather.Coordinate{}, risk.RoleUrban)
	require.ErrorIs(t, err, weather.ErrMissingField)
	dep, _ := weather.DependencyOf(err)
	assert.Equal(t, weather.DependencyAirQuality, dep)
}

func TestGenerate_CancelledRequest(t *testing.T) {
	svc := newTestService(t, &queryStore{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, weather.Coordinate{Lat: 1, Lon: 2}, risk.RoleUrban)
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}
