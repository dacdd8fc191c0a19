package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/i474232898/climate-risk-assistant/internal/config"
	"github.com/i474232898/climate-risk-assistant/internal/knowledge"
	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/report"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
	"github.com/i474232898/climate-risk-assistant/internal/weather/providers"
)

// deps holds the process-wide handles. They are built once before serving,
// shared read-only by every request and released by close.
type deps struct {
	cfg     *config.AppConfig
	logger  *log.Logger
	metrics *observability.Metrics
	gateway *weather.Gateway
	store   knowledge.Store
	service *report.Service
}

func buildDeps(ctx context.Context, cfg *config.AppConfig, logger *log.Logger, metrics *observability.Metrics) (*deps, error) {
	// Shared HTTP client for outbound provider and embedding calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	weatherProviders, air, err := buildProviders(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	gateway := weather.NewGateway(weatherProviders, air, cfg.ProviderTimeout, logger, metrics)

	store, err := buildStore(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}

	service := report.NewService(
		gateway,
		risk.NewComparator(gateway, cfg.CommunityOffset),
		knowledge.NewRetriever(store, cfg.RetrievalTopK, cfg.ProviderTimeout, logger, metrics),
		cfg.RequestTimeout,
		logger,
		metrics,
	)

	logger.Info("dependencies ready",
		"provider_mode", cfg.ProviderMode,
		"weather_providers", len(weatherProviders),
		"document_store", store.Name(),
	)
	return &deps{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		gateway: gateway,
		store:   store,
		service: service,
	}, nil
}

func (d *deps) close() {
	if err := d.store.Close(); err != nil {
		d.logger.Error("closing document store", "error", err)
	}
}

func buildProviders(cfg *config.AppConfig, httpClient *http.Client) ([]weather.WeatherProvider, weather.AirQualityProvider, error) {
	if cfg.ProviderMode == config.ProviderModeStatic {
		static := providers.NewStaticProvider()
		return []weather.WeatherProvider{static}, static, nil
	}

	// OpenWeatherMap is the only air-quality source, so live mode needs its key.
	if cfg.OpenWeatherAPIKey == "" {
		return nil, nil, errors.New("live provider mode requires OPENWEATHER_API_KEY")
	}

	ow := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	provs := []weather.WeatherProvider{ow}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.OpenMeteoEnabled {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient))
	}
	return provs, ow, nil
}

func buildStore(ctx context.Context, cfg *config.AppConfig, httpClient *http.Client) (knowledge.Store, error) {
	switch cfg.DocumentStore {
	case config.DocumentStoreSQLite:
		return knowledge.NewSQLiteStore(cfg.SQLitePath)
	default:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("pgvector document store requires DATABASE_URL")
		}
		embedder, err := buildEmbedder(cfg, httpClient)
		if err != nil {
			return nil, err
		}
		return knowledge.NewPGVectorStore(ctx, cfg.DatabaseURL, cfg.DocumentTable, embedder)
	}
}

func buildEmbedder(cfg *config.AppConfig, httpClient *http.Client) (knowledge.Embedder, error) {
	switch cfg.EmbeddingBackend {
	case config.EmbeddingBackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("openai embedding backend requires OPENAI_API_KEY")
		}
		return knowledge.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, httpClient), nil
	default:
		e, err := knowledge.NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbeddingModel, httpClient)
		if err != nil {
			return nil, fmt.Errorf("ollama embedder: %w", err)
		}
		return e, nil
	}
}
