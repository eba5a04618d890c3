// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/exam-deck/internal/deck"
	"github.com/pdiddy/exam-deck/internal/source"
	"github.com/pdiddy/exam-deck/pkg/types"
)

// fakeReader returns canned text per path, or an error.
type fakeReader struct {
	texts map[string]string
	err   error
}

func (f *fakeReader) Read(path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.texts[path]
	if !ok {
		return "", source.ErrNotFound
	}
	return text, nil
}

// fakeArchive records ingested documents.
type fakeArchive struct {
	docs map[string]types.Segmentation
	err  error
}

func (f *fakeArchive) IngestSegmentation(_ context.Context, docID, _ string, seg types.Segmentation) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.docs == nil {
		f.docs = map[string]types.Segmentation{}
	}
	f.docs[docID] = seg
	return len(seg.Questions), nil
}

func slideCount(t *testing.T, path string) int {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			n++
		}
	}
	return n
}

const exam = "期末考试\n1. 第一题\n【答案】A\n2、第二题\n3【答案】C"

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		style      types.DeckStyle
		text       string
		wantStatus Status
		wantLog    string
		wantSlides int
	}{
		{
			name:       "numbered deck has a cover",
			style:      types.StyleNumbered,
			text:       exam,
			wantStatus: StatusConverted,
			wantLog:    "converted: exam.txt (3 questions, 4 slides)",
			wantSlides: 4,
		},
		{
			name:       "plain deck has no cover",
			style:      types.StylePlain,
			text:       "1. A\n2. B",
			wantStatus: StatusConverted,
			wantLog:    "converted: exam.txt (2 questions, 2 slides)",
			wantSlides: 2,
		},
		{
			name:       "no markers is skipped",
			style:      types.StyleNumbered,
			text:       "just a paragraph of prose",
			wantStatus: StatusSkipped,
			wantLog:    "skipped:   exam.txt (no questions found)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "exam.txt")
			out := filepath.Join(dir, "exam.pptx")

			c := New(&fakeReader{texts: map[string]string{in: tt.text}}, tt.style, deck.DefaultConfig(), nil)
			var buf bytes.Buffer
			status := c.ConvertFile(context.Background(), Job{Input: in, Output: out}, &buf)

			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log %q does not contain %q", buf.String(), tt.wantLog)
			}
			if tt.wantSlides == 0 {
				if _, err := os.Stat(out); !os.IsNotExist(err) {
					t.Errorf("expected no deck, stat err = %v", err)
				}
				return
			}
			if got := slideCount(t, out); got != tt.wantSlides {
				t.Errorf("deck has %d slides, want %d", got, tt.wantSlides)
			}
		})
	}
}

func TestConvertFileSkipWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dir := t.TempDir()
	in := filepath.Join(dir, "prose.txt")

	c := New(&fakeReader{texts: map[string]string{in: "no numbers here"}}, types.StyleNumbered, deck.DefaultConfig(), zap.New(core))
	c.ConvertFile(context.Background(), Job{Input: in, Output: filepath.Join(dir, "prose.pptx")}, &bytes.Buffer{})

	if logs.Len() != 1 {
		t.Fatalf("got %d warnings, want 1", logs.Len())
	}
	if !strings.Contains(logs.All()[0].Message, "no question markers") {
		t.Errorf("unexpected warning %q", logs.All()[0].Message)
	}
}

func TestConvertFileReadError(t *testing.T) {
	dir := t.TempDir()
	c := New(&fakeReader{err: errors.New("disk on fire")}, types.StyleNumbered, deck.DefaultConfig(), nil)

	var buf bytes.Buffer
	status := c.ConvertFile(context.Background(), Job{Input: filepath.Join(dir, "x.txt"), Output: filepath.Join(dir, "x.pptx")}, &buf)
	if status != StatusFailed {
		t.Errorf("status = %q, want failed", status)
	}
	if !strings.Contains(buf.String(), "disk on fire") {
		t.Errorf("log %q missing cause", buf.String())
	}
}

func TestConvertFileLockedOutput(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "exam.txt")
	out := filepath.Join(dir, "exam.pptx")
	if err := os.WriteFile(out, nil, 0o400); err != nil {
		t.Fatal(err)
	}

	c := New(&fakeReader{texts: map[string]string{in: exam}}, types.StyleNumbered, deck.DefaultConfig(), nil)
	var buf bytes.Buffer
	if status := c.ConvertFile(context.Background(), Job{Input: in, Output: out}, &buf); status != StatusFailed {
		t.Errorf("status = %q, want failed", status)
	}
	if !strings.Contains(buf.String(), "open in another program") {
		t.Errorf("log %q missing locked hint", buf.String())
	}
}

func TestConvertFileArchives(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "midterm.md")
	archive := &fakeArchive{}

	c := New(&fakeReader{texts: map[string]string{in: exam}}, types.StyleNumbered, deck.DefaultConfig(), nil)
	c.Archive = archive
	c.ConvertFile(context.Background(), Job{Input: in, Output: filepath.Join(dir, "midterm.pptx")}, &bytes.Buffer{})

	seg, ok := archive.docs["midterm"]
	if !ok {
		t.Fatalf("document not archived: %v", archive.docs)
	}
	if seg.Title != "期末考试" || len(seg.Questions) != 3 {
		t.Errorf("archived %+v", seg)
	}
}

func TestConvertFileArchiveFailureIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dir := t.TempDir()
	in := filepath.Join(dir, "exam.txt")

	c := New(&fakeReader{texts: map[string]string{in: exam}}, types.StyleNumbered, deck.DefaultConfig(), zap.New(core))
	c.Archive = &fakeArchive{err: errors.New("db locked")}
	status := c.ConvertFile(context.Background(), Job{Input: in, Output: filepath.Join(dir, "exam.pptx")}, &bytes.Buffer{})

	if status != StatusConverted {
		t.Errorf("status = %q, want converted", status)
	}
	if logs.FilterMessage("archiving to question bank failed").Len() != 1 {
		t.Error("expected an archive warning")
	}
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	empty := filepath.Join(dir, "empty.txt")
	missing := filepath.Join(dir, "missing.txt")

	reader := &fakeReader{texts: map[string]string{good: exam, empty: "prose"}}
	c := New(reader, types.StylePlain, deck.DefaultConfig(), nil)

	jobs, err := Jobs([]string{good, empty, missing}, "", filepath.Join(dir, "decks"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "decks"), 0o755); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	result, err := c.ConvertBatch(context.Background(), jobs, &buf)
	if err != nil {
		t.Fatal(err)
	}

	if result.Converted != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.Total() != 3 || !result.HasFailures() {
		t.Errorf("Total() = %d, HasFailures() = %v", result.Total(), result.HasFailures())
	}
	if !strings.Contains(buf.String(), "Batch summary: 1 converted, 1 skipped, 1 failed (total: 3)") {
		t.Errorf("missing summary in %q", buf.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "decks", "good.pptx")); err != nil {
		t.Errorf("deck not written: %v", err)
	}
}

func TestConvertBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(&fakeReader{}, types.StylePlain, deck.DefaultConfig(), nil)
	_, err := c.ConvertBatch(ctx, []Job{{Input: "a.txt", Output: "a.pptx"}}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, dir, want string
	}{
		{"input.txt", "", "input.pptx"},
		{"exams/1.docx", "", filepath.Join("exams", "1.pptx")},
		{"exams/1.docx", "out", filepath.Join("out", "1.pptx")},
		{"notes.final.md", "out", filepath.Join("out", "notes.final.pptx")},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.dir); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.dir, got, tt.want)
		}
	}
}

func TestJobs(t *testing.T) {
	jobs, err := Jobs([]string{"a.txt"}, "deck.pptx", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Output != "deck.pptx" {
		t.Errorf("jobs = %+v", jobs)
	}

	if _, err := Jobs([]string{"a.txt", "b.txt"}, "deck.pptx", ""); err == nil {
		t.Error("expected error for --output with multiple inputs")
	}

	jobs, err = Jobs([]string{"a.txt", "b.md"}, "", "out")
	if err != nil {
		t.Fatal(err)
	}
	if jobs[1].Output != filepath.Join("out", "b.pptx") {
		t.Errorf("jobs = %+v", jobs)
	}
}
