// Package knowledge retrieves safety guidance for generated queries from a
// document store and filters it into recommendation bullets.
package knowledge

import (
	"context"
	"errors"
)

// DefaultTopK is the number of documents requested per query.
const DefaultTopK = 1

// ErrMalformedDocument marks a stored row with absent text or source. Empty
// strings are valid values.
var ErrMalformedDocument = errors.New("malformed document")

// Document is one retrieved knowledge-base passage.
type Document struct {
	Text     string
	SourceID string
}

// validateNew rejects empty documents at ingestion time.
func (d Document) validateNew() error {
	if d.Text == "" || d.SourceID == "" {
		return ErrMalformedDocument
	}
	return nil
}

// Store is a nearest-neighbor text index. Query returns at most topK
// documents ranked by descending similarity to text. Implementations must be
// safe for concurrent use.
type Store interface {
	Name() string
	Query(ctx context.Context, text string, topK int) ([]Document, error)
	Close() error
}
