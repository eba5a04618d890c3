// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Question is one numbered block of an exam document.
type Question struct {
	// Ordinal is the literal digit text of the marker (e.g. "12"). It is
	// not validated for order, uniqueness, or contiguity.
	Ordinal string `json:"ordinal" yaml:"ordinal"`

	// Marker is the consumed marker text with surrounding whitespace
	// trimmed (e.g. "12." or "12").
	Marker string `json:"marker" yaml:"marker"`

	// Body is the text after the marker up to the next marker or the end
	// of the document, trimmed. Answer markers such as 【答案】 are kept
	// verbatim.
	Body string `json:"body" yaml:"body"`
}

// Segmentation is the result of splitting one document into questions.
type Segmentation struct {
	// Title is the text before the first marker, or the configured
	// default title when that text is empty.
	Title string `json:"title" yaml:"title"`

	// Questions holds the records in source order.
	Questions []Question `json:"questions" yaml:"questions"`
}

// Empty reports whether no markers were recognized. Callers treat this as
// a warning about input formatting, not as a failure.
func (s Segmentation) Empty() bool {
	return len(s.Questions) == 0
}

// Ordinal is a question identifier as emitted by a language model. Models
// write it as either a JSON string ("3") or a JSON number (3); both decode
// to the same value and it always encodes as a string.
type Ordinal string

// UnmarshalJSON accepts a string, a number, or null.
func (o *Ordinal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Ordinal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", string(data))
	}
	*o = Ordinal(n.String())
	return nil
}

// QAPair is one sub-question and its answer.
type QAPair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// QARecord is one element of the restructured JSON array produced by the
// LLM-assisted path: {id, description, qa_pairs: [{question, answer}]}.
type QARecord struct {
	ID          Ordinal  `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	QAPairs     []QAPair `json:"qa_pairs,omitempty" yaml:"qa_pairs,omitempty"`
}
