package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// DefaultDocumentTable holds the embedded guide chunks.
const DefaultDocumentTable = "climate_guides"

// PGVectorStore ranks guide chunks by cosine distance to the embedded query.
//
// The table is expected to have the columns content text, source text and
// embedding vector(n) where n matches the embedder's output.
type PGVectorStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	query    string
}

// NewPGVectorStore connects to dsn and registers the pgvector types on every
// pooled connection.
func NewPGVectorStore(ctx context.Context, dsn, table string, embedder Embedder) (*PGVectorStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PGVectorStore{
		pool:     pool,
		embedder: embedder,
		query:    similarityQuery(table),
	}, nil
}

func similarityQuery(table string) string {
	if table == "" {
		table = DefaultDocumentTable
	}
	return fmt.Sprintf(
		"SELECT content, source FROM %s ORDER BY embedding <=> $1 LIMIT $2",
		pgx.Identifier{table}.Sanitize(),
	)
}

func (s *PGVectorStore) Name() string { return "pgvector" }

func (s *PGVectorStore) Query(ctx context.Context, text string, topK int) ([]Document, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, s.query, pgvector.NewVector(vec), topK)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0, topK)
	for rows.Next() {
		var content, source *string
		if err := rows.Scan(&content, &source); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if content == nil || source == nil {
			return nil, ErrMalformedDocument
		}
		docs = append(docs, Document{Text: *content, SourceID: *source})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	return docs, nil
}

// Close releases the pool.
func (s *PGVectorStore) Close() error {
	s.pool.Close()
	return nil
}
