// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns exam documents into slide decks: read the input,
// segment it into numbered questions, lay the questions out, and save the
// .pptx. It also runs batches and reports per-file status.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/internal/deck"
	"github.com/pdiddy/exam-deck/internal/segment"
	"github.com/pdiddy/exam-deck/pkg/types"
)

// TextReader extracts plain text from an input document. *source.Reader
// implements it.
type TextReader interface {
	Read(path string) (string, error)
}

// Archiver stores segmented questions. *bank.Store implements it.
type Archiver interface {
	IngestSegmentation(ctx context.Context, docID, source string, seg types.Segmentation) (int, error)
}

// Status is the outcome of converting one file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Job pairs an input document with its deck path.
type Job struct {
	Input  string
	Output string
}

// Converter runs the segment-and-render pipeline.
type Converter struct {
	Reader    TextReader
	Segmenter *segment.Segmenter
	Style     types.DeckStyle
	Deck      types.DeckConfig

	// Archive, when set, receives every successfully segmented document.
	Archive Archiver
	Log     *zap.Logger
}

// New returns a Converter whose segmenter matches style.
func New(reader TextReader, style types.DeckStyle, deckCfg types.DeckConfig, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{
		Reader:    reader,
		Segmenter: segment.New(segment.ConfigForStyle(style)),
		Style:     style,
		Deck:      deckCfg,
		Log:       log,
	}
}

// OutputPath returns the deck path for input inside dir: {dir}/{base}.pptx.
// An empty dir places the deck next to the input.
func OutputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+".pptx")
}

// Jobs pairs inputs with outputs. output names the deck for a single
// input; otherwise each deck goes to outputDir (or beside its input).
func Jobs(inputs []string, output, outputDir string) ([]Job, error) {
	if output != "" && len(inputs) > 1 {
		return nil, fmt.Errorf("--output applies to a single input; use --output-dir for %d inputs", len(inputs))
	}
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		out := output
		if out == "" {
			out = OutputPath(in, outputDir)
		}
		jobs[i] = Job{Input: in, Output: out}
	}
	return jobs, nil
}

// ConvertFile converts one document, printing a status line to w. A
// document with no recognizable question markers is skipped with a
// warning and produces no deck.
func (c *Converter) ConvertFile(ctx context.Context, job Job, w io.Writer) Status {
	base := filepath.Base(job.Input)
	log := c.Log.With(zap.String("input", job.Input))

	text, err := c.Reader.Read(job.Input)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed
	}

	seg := c.Segmenter.Segment(text)
	log.Debug("segmented", zap.String("title", seg.Title), zap.Int("questions", len(seg.Questions)))
	if seg.Empty() {
		log.Warn("no question markers found; check that questions start with a number such as \"1.\" or \"1、\"")
		fmt.Fprintf(w, "skipped:   %s (no questions found)\n", base)
		return StatusSkipped
	}

	p := deck.ForStyle(c.Style, seg, c.Deck)
	if err := p.Save(job.Output); err != nil {
		if errors.Is(err, deck.ErrOutputLocked) {
			fmt.Fprintf(w, "failed:    %s (%s is open in another program or not writable)\n", base, job.Output)
		} else {
			fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		}
		return StatusFailed
	}

	if c.Archive != nil {
		docID := strings.TrimSuffix(base, filepath.Ext(base))
		if _, err := c.Archive.IngestSegmentation(ctx, docID, job.Input, seg); err != nil {
			log.Warn("archiving to question bank failed", zap.Error(err))
		}
	}

	fmt.Fprintf(w, "converted: %s (%d questions, %d slides) -> %s\n", base, len(seg.Questions), len(p.Slides), job.Output)
	return StatusConverted
}

// ConvertBatch converts each job in order, printing per-file status and a
// summary to w. It stops early when ctx is cancelled.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []Job, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		switch c.ConvertFile(ctx, job, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}
