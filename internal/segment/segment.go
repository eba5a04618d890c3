// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits exam documents into numbered question records.
//
// A question starts at an ordinal marker: digits at the start of a line
// followed by a separator. Everything between two markers is the body of
// the first; everything before the first marker is the document title.
// Segmentation is a pure function of its input and never fails.
package segment

import (
	"strings"

	"github.com/pdiddy/exam-deck/pkg/types"
)

// DefaultTitle is used when no text precedes the first marker.
const DefaultTitle = "试卷解析"

// DefaultConfig returns the marker rule for numbered exam documents:
// "1." "1．" "1、" "1 " and "1【" all start a question.
func DefaultConfig() types.SegmentConfig {
	return types.SegmentConfig{
		Separators:   ".．、",
		Whitespace:   true,
		Lookahead:    "【",
		DefaultTitle: DefaultTitle,
	}
}

// PlainConfig returns the stricter rule used by the plain deck style:
// a period (ASCII or full-width) or whitespace after the digits.
func PlainConfig() types.SegmentConfig {
	return types.SegmentConfig{
		Separators:   ".．",
		Whitespace:   true,
		DefaultTitle: DefaultTitle,
	}
}

// ConfigForStyle returns the preset matching a deck style.
func ConfigForStyle(style types.DeckStyle) types.SegmentConfig {
	if style == types.StylePlain {
		return PlainConfig()
	}
	return DefaultConfig()
}

// Segmenter splits documents according to a SegmentConfig.
type Segmenter struct {
	scanner      *scanner
	defaultTitle string
}

// New returns a Segmenter for cfg.
func New(cfg types.SegmentConfig) *Segmenter {
	return &Segmenter{
		scanner:      newScanner(cfg.Separators, cfg.Lookahead, cfg.Whitespace),
		defaultTitle: cfg.DefaultTitle,
	}
}

// Segment splits text with the default configuration.
func Segment(text string) types.Segmentation {
	return New(DefaultConfig()).Segment(text)
}

// Markers returns the ordinal markers found in text, in source order.
func (s *Segmenter) Markers(text string) []Marker {
	return s.scanner.scan(text)
}

// Segment splits text into a title and question records. A document with
// no markers yields zero records and the whole trimmed text as title.
func (s *Segmenter) Segment(text string) types.Segmentation {
	markers := s.scanner.scan(text)

	titleEnd := len(text)
	if len(markers) > 0 {
		titleEnd = markers[0].Start
	}
	title := strings.TrimSpace(text[:titleEnd])
	if title == "" {
		title = s.defaultTitle
	}

	questions := make([]types.Question, 0, len(markers))
	for i, m := range markers {
		bodyEnd := len(text)
		if i+1 < len(markers) {
			bodyEnd = markers[i+1].Start
		}
		questions = append(questions, types.Question{
			Ordinal: m.Ordinal,
			Marker:  m.Text,
			Body:    strings.TrimSpace(text[m.End:bodyEnd]),
		})
	}

	return types.Segmentation{Title: title, Questions: questions}
}

// Join rebuilds a document from a segmentation: the title, then one
// "marker body" block per record, separated by newlines. Segmenting the
// result with the same configuration reproduces seg.
func Join(seg types.Segmentation) string {
	var b strings.Builder
	b.WriteString(seg.Title)
	for _, q := range seg.Questions {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		marker := q.Marker
		if marker == "" {
			marker = q.Ordinal
		}
		b.WriteString(marker)
		b.WriteByte(' ')
		b.WriteString(q.Body)
	}
	return b.String()
}
