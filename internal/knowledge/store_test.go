package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "guides.db"))
	if err != nil && strings.Contains(err.Error(), "no such module: fts5") {
		t.Skip("go-sqlite3 built without sqlite_fts5")
	}
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Query(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, Document{Text: "Move to higher ground during a flood.", SourceID: "flood.pdf"}))
	require.NoError(t, s.Add(ctx, Document{Text: "Drink water often during a heatwave.", SourceID: "heat.pdf"}))
	require.NoError(t, s.Add(ctx, Document{Text: "Wear a mask when air pollution is high.", SourceID: "air.pdf"}))

	got, err := s.Query(ctx, "urban flood preparedness and evacuation safety", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "flood.pdf", got[0].SourceID)

	got, err = s.Query(ctx, "no-match-at-all", 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_AddRejectsMalformed(t *testing.T) {
	s := newTestSQLiteStore(t)
	assert.ErrorIs(t, s.Add(context.Background(), Document{Text: "x"}), ErrMalformedDocument)
}

func TestMatchExpression(t *testing.T) {
	assert.Equal(t, `"air" OR "pollution" OR "crops"`, matchExpression("Air-pollution: crops?"))
	assert.Equal(t, "", matchExpression(" ,; "))
}

func TestSimilarityQuery(t *testing.T) {
	assert.Equal(t,
		`SELECT content, source FROM "climate_guides" ORDER BY embedding <=> $1 LIMIT $2`,
		similarityQuery(""))
	assert.Equal(t,
		`SELECT content, source FROM "guides" ORDER BY embedding <=> $1 LIMIT $2`,
		similarityQuery("guides"))
}

func TestOpenAIEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/embeddings"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "text-embedding-3-small", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small",
			"data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],
			"usage":{"prompt_tokens":3,"total_tokens":3}}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder("test-key", srv.URL+"/v1/", "text-embedding-3-small", srv.Client())
	vec, err := e.Embed(context.Background(), "heatwave safety")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vec)
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"all-minilm","embeddings":[[0.1,0.2]]}`))
	}))
	defer srv.Close()

	e, err := NewOllamaEmbedder(srv.URL, "all-minilm", srv.Client())
	require.NoError(t, err)
	vec, err := e.Embed(context.Background(), "flood")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
}

func TestOllamaEmbedder_EmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"all-minilm","embeddings":[]}`))
	}))
	defer srv.Close()

	e, err := NewOllamaEmbedder(srv.URL, "all-minilm", nil)
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "flood")
	assert.ErrorIs(t, err, errEmptyEmbedding)
}
