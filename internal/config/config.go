package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderModeLive   = "live"
	ProviderModeStatic = "static"

	DocumentStorePGVector = "pgvector"
	DocumentStoreSQLite   = "sqlite"

	EmbeddingBackendOpenAI = "openai"
	EmbeddingBackendOllama = "ollama"
)

type AppConfig struct {
	Port      string
	LogLevel  string
	LogFormat string

	// ProviderMode is live (HTTP providers) or static (fixed demo readings).
	ProviderMode      string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	OpenMeteoEnabled  bool

	HTTPTimeout     time.Duration // shared outbound client
	ProviderTimeout time.Duration // per external call
	RequestTimeout  time.Duration // whole report

	CommunityOffset float64
	RetrievalTopK   int

	DocumentStore string
	DatabaseURL   string
	DocumentTable string
	SQLitePath    string

	EmbeddingBackend string
	EmbeddingModel   string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OllamaHost       string

	// ProbeInterval of 0 disables the readiness prober.
	ProbeInterval time.Duration
	ProbeLat      float64
	ProbeLon      float64
}

// Load reads configuration from the environment, after an optional .env file,
// with sensible defaults. Malformed values are errors.
func Load() (*AppConfig, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:      getenvDefault("PORT", "8080"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "text"),

		ProviderMode:      strings.ToLower(getenvDefault("PROVIDER_MODE", ProviderModeLive)),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),

		DocumentStore: strings.ToLower(getenvDefault("DOCUMENT_STORE", DocumentStorePGVector)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DocumentTable: getenvDefault("DOCUMENT_TABLE", "climate_guides"),
		SQLitePath:    getenvDefault("SQLITE_PATH", "./data/climate_guides.db"),

		EmbeddingBackend: strings.ToLower(getenvDefault("EMBEDDING_BACKEND", EmbeddingBackendOllama)),
		EmbeddingModel:   getenvDefault("EMBEDDING_MODEL", "all-minilm"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		OllamaHost:       getenvDefault("OLLAMA_HOST", "http://localhost:11434"),
	}

	var err error
	if cfg.OpenMeteoEnabled, err = getenvBool("OPENMETEO_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getenvDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CommunityOffset, err = getenvFloat("COMMUNITY_OFFSET", 0.05); err != nil {
		return nil, err
	}
	if cfg.RetrievalTopK, err = getenvInt("RETRIEVAL_TOP_K", 1); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ProbeLat, err = getenvFloat("PROBE_LAT", 12.9716); err != nil {
		return nil, err
	}
	if cfg.ProbeLon, err = getenvFloat("PROBE_LON", 77.5946); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.ProviderMode {
	case ProviderModeLive, ProviderModeStatic:
	default:
		return fmt.Errorf("invalid PROVIDER_MODE %q: want %s or %s", c.ProviderMode, ProviderModeLive, ProviderModeStatic)
	}
	switch c.DocumentStore {
	case DocumentStorePGVector, DocumentStoreSQLite:
	default:
		return fmt.Errorf("invalid DOCUMENT_STORE %q: want %s or %s", c.DocumentStore, DocumentStorePGVector, DocumentStoreSQLite)
	}
	switch c.EmbeddingBackend {
	case EmbeddingBackendOpenAI, EmbeddingBackendOllama:
	default:
		return fmt.Errorf("invalid EMBEDDING_BACKEND %q: want %s or %s", c.EmbeddingBackend, EmbeddingBackendOpenAI, EmbeddingBackendOllama)
	}
	if c.RetrievalTopK < 1 {
		return fmt.Errorf("invalid RETRIEVAL_TOP_K %d: must be at least 1", c.RetrievalTopK)
	}
	if c.CommunityOffset <= 0 {
		return fmt.Errorf("invalid COMMUNITY_OFFSET %v: must be positive", c.CommunityOffset)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
