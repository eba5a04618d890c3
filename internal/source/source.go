// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads exam documents from disk into plain text.
// Plain text files are decoded as UTF-8 with a configurable list of
// fallback encodings; Markdown, Word (.docx) and PDF files are reduced to
// one line per paragraph so that numbered questions stay line anchored.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/pkg/types"
)

// ErrNotFound reports a missing input file. Processing halts before
// segmentation when it is returned.
var ErrNotFound = errors.New("input file not found")

// DefaultFallbackEncodings is used when SourceConfig lists none.
var DefaultFallbackEncodings = []string{"gbk"}

// Reader reads documents according to a SourceConfig.
type Reader struct {
	encodings []string
	log       *zap.Logger
}

// NewReader returns a Reader. A nil logger discards diagnostics.
func NewReader(cfg types.SourceConfig, log *zap.Logger) *Reader {
	encodings := cfg.FallbackEncodings
	if len(encodings) == 0 {
		encodings = DefaultFallbackEncodings
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{encodings: encodings, log: log}
}

// Read returns the text content of the document at path. The format is
// chosen by file extension; unknown extensions are read as plain text.
func (r *Reader) Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		text, err := r.decode(path, data)
		if err != nil {
			return "", err
		}
		return markdownText([]byte(text)), nil
	case ".docx":
		return docxText(path)
	case ".pdf":
		return pdfText(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if looksLikeZip(data) {
			r.log.Warn("input looks like a zip container (docx/pptx); rename it with the right extension or save it as plain text",
				zap.String("path", path))
		}
		return r.decode(path, data)
	}
}

// looksLikeZip reports whether data starts with the zip local file header
// magic, which is what a .docx read as text looks like.
func looksLikeZip(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && data[1] == 'K'
}
