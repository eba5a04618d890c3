// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bank archives segmented and restructured exam questions in a
// SQLite database so they can be searched and exported across documents.
package bank

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/exam-deck/pkg/types"
)

const (
	dbFile = "bank.db"

	defaultMaxResults = 20
)

// Kind records which pipeline produced a document's questions.
type Kind string

const (
	KindSegment Kind = "segment"
	KindQA      Kind = "qa"
)

// Store manages the question bank database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the bank at cfg.Dir/bank.db and ensures the
// schema exists.
func NewStore(cfg types.BankConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("bank directory not set")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bank directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT,
			source TEXT,
			kind TEXT NOT NULL,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			ordinal TEXT,
			marker TEXT,
			body TEXT,
			question TEXT,
			answer TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_doc_id ON questions(doc_id, seq)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// DocID derives a document ID from an input path: the base name without
// its extension.
func DocID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// row is one stored question.
type row struct {
	ordinal, marker, body, question, answer string
}

// IngestSegmentation stores the questions of a segmented document,
// replacing any earlier version of docID. It returns the number of rows
// written.
func (s *Store) IngestSegmentation(ctx context.Context, docID, source string, seg types.Segmentation) (int, error) {
	rows := make([]row, len(seg.Questions))
	for i, q := range seg.Questions {
		rows[i] = row{ordinal: q.Ordinal, marker: q.Marker, body: q.Body}
	}
	return s.ingest(ctx, docID, seg.Title, source, KindSegment, rows)
}

// IngestRecords stores restructured records, one row per question and
// answer pair, replacing any earlier version of docID. A record without
// pairs is stored as a single row with only its description.
func (s *Store) IngestRecords(ctx context.Context, docID, source string, records []types.QARecord) (int, error) {
	var rows []row
	for _, r := range records {
		if len(r.QAPairs) == 0 {
			rows = append(rows, row{ordinal: string(r.ID), body: r.Description})
			continue
		}
		for _, qa := range r.QAPairs {
			rows = append(rows, row{
				ordinal:  string(r.ID),
				body:     r.Description,
				question: qa.Question,
				answer:   qa.Answer,
			})
		}
	}
	return s.ingest(ctx, docID, docID, source, KindQA, rows)
}

func (s *Store) ingest(ctx context.Context, docID, title, source string, kind Kind, rows []row) (int, error) {
	if docID == "" {
		return 0, fmt.Errorf("document ID is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, source, kind, ingested_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, source=excluded.source,
			kind=excluded.kind, ingested_at=excluded.ingested_at`,
		docID, title, source, string(kind), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE doc_id = ?`, docID); err != nil {
		return 0, fmt.Errorf("deleting old questions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (doc_id, seq, ordinal, marker, body, question, answer)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, docID, i+1, r.ordinal, r.marker, r.body, r.question, r.answer); err != nil {
			return 0, fmt.Errorf("inserting question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(rows), nil
}

// Document summarizes one ingested document.
type Document struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Source     string    `json:"source" yaml:"source"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Questions  int       `json:"questions" yaml:"questions"`
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
}

// Documents lists ingested documents ordered by ID.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.title, d.source, d.kind, d.ingested_at, count(q.rowid)
		 FROM documents d
		 LEFT JOIN questions q ON q.doc_id = d.id
		 GROUP BY d.id
		 ORDER BY d.id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d                    Document
			title, src, ingested sql.NullString
			kind                 string
		)
		if err := rows.Scan(&d.ID, &title, &src, &kind, &ingested, &d.Questions); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		d.Title = title.String
		d.Source = src.String
		d.Kind = Kind(kind)
		if ingested.Valid {
			d.IngestedAt, _ = time.Parse(time.RFC3339, ingested.String)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Delete removes a document and its questions. It reports whether the
// document existed.
func (s *Store) Delete(ctx context.Context, docID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID)
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	return n > 0, nil
}
