package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is an offline document store ranked by FTS5 bm25. It needs a
// go-sqlite3 build with the sqlite_fts5 tag.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the knowledge base at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating knowledge base directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS guides (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			source TEXT NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS guides_fts USING fts5(content, content=guides, content_rowid=rowid)`,
		`CREATE TRIGGER IF NOT EXISTS guides_ai AFTER INSERT ON guides BEGIN
			INSERT INTO guides_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER IF NOT EXISTS guides_ad AFTER DELETE ON guides BEGIN
			INSERT INTO guides_fts(guides_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// Add indexes one guide chunk.
func (s *SQLiteStore) Add(ctx context.Context, d Document) error {
	if err := d.validateNew(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO guides (content, source) VALUES (?, ?)`, d.Text, d.SourceID)
	if err != nil {
		return fmt.Errorf("inserting guide: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, text string, topK int) ([]Document, error) {
	match := matchExpression(text)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.content, g.source
		FROM guides_fts
		JOIN guides g ON g.rowid = guides_fts.rowid
		WHERE guides_fts MATCH ?
		ORDER BY guides_fts.rank, g.rowid
		LIMIT ?`, match, topK)
	if err != nil {
		return nil, fmt.Errorf("searching guides: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0, topK)
	for rows.Next() {
		var content, source sql.NullString
		if err := rows.Scan(&content, &source); err != nil {
			return nil, fmt.Errorf("scanning guide: %w", err)
		}
		if !content.Valid || !source.Valid {
			return nil, ErrMalformedDocument
		}
		docs = append(docs, Document{Text: content.String, SourceID: source.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching guides: %w", err)
	}
	return docs, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// matchExpression turns free text into an FTS5 query that matches any of its
// words, quoting each term so punctuation cannot break the syntax.
func matchExpression(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " OR ")
}
