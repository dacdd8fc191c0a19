package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "PROVIDER_MODE", "OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY",
		"OPENMETEO_ENABLED", "HTTP_TIMEOUT", "PROVIDER_TIMEOUT", "REQUEST_TIMEOUT", "COMMUNITY_OFFSET",
		"RETRIEVAL_TOP_K", "DOCUMENT_STORE", "DATABASE_URL", "DOCUMENT_TABLE", "SQLITE_PATH",
		"EMBEDDING_BACKEND", "EMBEDDING_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OLLAMA_HOST",
		"PROBE_INTERVAL", "PROBE_LAT", "PROBE_LON",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderModeLive, cfg.ProviderMode)
	assert.True(t, cfg.OpenMeteoEnabled)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.05, cfg.CommunityOffset)
	assert.Equal(t, 1, cfg.RetrievalTopK)
	assert.Equal(t, DocumentStorePGVector, cfg.DocumentStore)
	assert.Equal(t, "climate_guides", cfg.DocumentTable)
	assert.Equal(t, EmbeddingBackendOllama, cfg.EmbeddingBackend)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, 5*time.Minute, cfg.ProbeInterval)
	assert.Equal(t, 12.9716, cfg.ProbeLat)
	assert.Equal(t, 77.5946, cfg.ProbeLon)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER_MODE", "STATIC")
	t.Setenv("DOCUMENT_STORE", "sqlite")
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("OPENMETEO_ENABLED", "false")
	t.Setenv("PROBE_INTERVAL", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderModeStatic, cfg.ProviderMode)
	assert.Equal(t, DocumentStoreSQLite, cfg.DocumentStore)
	assert.Equal(t, 3, cfg.RetrievalTopK)
	assert.False(t, cfg.OpenMeteoEnabled)
	assert.Zero(t, cfg.ProbeInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"PROVIDER_TIMEOUT":  "soon",
		"COMMUNITY_OFFSET":  "near",
		"RETRIEVAL_TOP_K":   "0",
		"OPENMETEO_ENABLED": "maybe",
		"PROVIDER_MODE":     "cached",
		"DOCUMENT_STORE":    "elastic",
		"EMBEDDING_BACKEND": "cohere",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
