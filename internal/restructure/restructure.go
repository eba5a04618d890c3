// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package restructure sends an unstructured exam document to a language
// model and turns the reply into question/answer JSON records:
//
//	[{"id": "1", "description": "...", "qa_pairs": [{"question": "...", "answer": "..."}]}]
//
// A reply that is not valid JSON is kept verbatim so it can be fixed by
// hand.
package restructure

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/exam-deck/internal/source"
	"github.com/pdiddy/exam-deck/pkg/types"
)

// Placeholder is replaced by the document text in a prompt template.
const Placeholder = "{Input_text}"

// ErrEmptyResponse reports a model reply with no content.
var ErrEmptyResponse = errors.New("API returned nothing")

// DefaultPrompt is the built-in prompt template.
//
//go:embed prompt_clean.md
var DefaultPrompt string

// Backend abstracts the chat-completion API so tests can supply a mock.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one restructuring call.
type Result struct {
	// Output is what gets written to disk: indented JSON when the reply
	// parsed, otherwise the fence-stripped reply verbatim.
	Output []byte

	// Valid reports whether the reply was well-formed JSON.
	Valid bool

	// Records holds the decoded records when the reply was a JSON array
	// matching the record schema.
	Records []types.QARecord
}

// RenderPrompt substitutes the document into the template.
func RenderPrompt(template, input string) string {
	return strings.ReplaceAll(template, Placeholder, input)
}

// StripCodeFences removes a Markdown code fence around a model reply:
// a leading ```json or ``` and a trailing ```.
func StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// Run renders the prompt, calls the backend once, and cleans the reply.
// An invalid JSON reply is not an error: Result.Valid is false and the
// cleaned text is preserved.
func Run(ctx context.Context, backend Backend, input, template string) (Result, error) {
	raw, err := backend.Complete(ctx, RenderPrompt(template, input))
	if err != nil {
		return Result{}, fmt.Errorf("calling model: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return Result{}, ErrEmptyResponse
	}

	cleaned := StripCodeFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return Result{Output: []byte(cleaned)}, nil
	}

	plain, err := unescapeJSON([]byte(cleaned))
	if err != nil {
		return Result{Output: []byte(cleaned)}, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, plain, "", "  "); err != nil {
		return Result{Output: []byte(cleaned)}, nil
	}
	buf.WriteByte('\n')

	result := Result{Output: buf.Bytes(), Valid: true}
	var records []types.QARecord
	if err := json.Unmarshal([]byte(cleaned), &records); err == nil {
		result.Records = records
	}
	return result, nil
}

// unescapeJSON re-encodes a valid JSON document token by token so that
// \uXXXX escapes of non-ASCII and HTML characters come out as literal
// UTF-8. Key order, numbers and unknown fields are kept as written.
func unescapeJSON(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out, val bytes.Buffer
	enc := json.NewEncoder(&val)
	enc.SetEscapeHTML(false)

	type frame struct {
		object bool
		n      int
	}
	var stack []frame
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
			out.WriteByte(byte(d))
			stack = stack[:len(stack)-1]
			continue
		}

		if len(stack) > 0 {
			top := &stack[len(stack)-1]
			switch {
			case top.object && top.n%2 == 1:
				out.WriteByte(':')
			case top.n > 0:
				out.WriteByte(',')
			}
			top.n++
		}

		if d, ok := tok.(json.Delim); ok {
			out.WriteByte(byte(d))
			stack = append(stack, frame{object: d == '{'})
			continue
		}
		val.Reset()
		if err := enc.Encode(tok); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(val.Bytes(), "\n"))
	}
}

// WriteResult writes the result output to path.
func WriteResult(path string, r Result) error {
	if err := os.WriteFile(path, r.Output, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadPrompt reads a prompt template file. A missing file wraps
// source.ErrNotFound.
func LoadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("prompt file: %w: %s", source.ErrNotFound, path)
		}
		return "", fmt.Errorf("reading prompt %s: %w", path, err)
	}
	return string(data), nil
}

// LoadRecords reads a JSON record array from path.
func LoadRecords(path string) ([]types.QARecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("JSON file: %w: %s", source.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []types.QARecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return records, nil
}
