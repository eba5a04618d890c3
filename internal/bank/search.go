// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bank

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for bank queries.
type QueryOptions struct {
	// Query is a substring matched against body, question, and answer
	// text. Empty matches everything.
	Query string

	// DocID restricts results to one document.
	DocID string

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// Entry is one stored question with its document.
type Entry struct {
	DocID    string `json:"doc_id" yaml:"doc_id"`
	DocTitle string `json:"doc_title,omitempty" yaml:"doc_title,omitempty"`
	Seq      int    `json:"seq" yaml:"seq"`
	Ordinal  string `json:"ordinal" yaml:"ordinal"`
	Marker   string `json:"marker,omitempty" yaml:"marker,omitempty"`
	Body     string `json:"body" yaml:"body"`
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Answer   string `json:"answer,omitempty" yaml:"answer,omitempty"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns questions matching opts ordered by document then
// position within the document.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT q.doc_id, d.title, q.seq, q.ordinal, q.marker, q.body, q.question, q.answer
		FROM questions q
		JOIN documents d ON d.id = q.doc_id
		WHERE 1=1`)

	if opts.Query != "" {
		pattern := "%" + likeEscaper.Replace(opts.Query) + "%"
		qb.WriteString(` AND (q.body LIKE ? ESCAPE '\' OR q.question LIKE ? ESCAPE '\' OR q.answer LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if opts.DocID != "" {
		qb.WriteString(` AND q.doc_id = ?`)
		args = append(args, opts.DocID)
	}

	qb.WriteString(` ORDER BY q.doc_id, q.seq LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying bank: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.DocID, &e.DocTitle, &e.Seq, &e.Ordinal, &e.Marker, &e.Body, &e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
