// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck builds PowerPoint (.pptx) presentations made of text boxes
// and provides the slide layouts for segmented and restructured exams.
package deck

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
)

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

// EMU is a length in English Metric Units.
type EMU int64

// Inches converts inches to EMU.
func Inches(v float64) EMU { return EMU(math.Round(v * EMUPerInch)) }

// Points converts typographic points to EMU.
func Points(v float64) EMU { return EMU(math.Round(v * EMUPerInch / 72)) }

// Size is a slide size.
type Size struct {
	Width, Height EMU
}

var (
	// Standard is the 4:3 slide size.
	Standard = Size{Width: Inches(10), Height: Inches(7.5)}
	// Widescreen is the 16:9 slide size.
	Widescreen = Size{Width: Inches(13.333), Height: Inches(7.5)}
)

// ErrOutputLocked reports that the output file could not be opened for
// writing, usually because it is open in another program.
var ErrOutputLocked = errors.New("output file is locked or not writable")

// RGB is a solid text color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as six upper-case hex digits.
func (c RGB) Hex() string { return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B) }

// Align is a paragraph alignment.
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// Paragraph is a run of uniformly styled text. Newlines in Text become
// line breaks within the paragraph.
type Paragraph struct {
	Text  string
	Size  float64 // points; zero keeps the theme default
	Bold  bool
	Color *RGB
	Font  string
	Align Align
}

// TextBox is a word-wrapped rectangle of paragraphs.
type TextBox struct {
	Left, Top, Width, Height EMU
	Paragraphs               []Paragraph
}

// AddParagraph appends a paragraph and returns the box.
func (b *TextBox) AddParagraph(p Paragraph) *TextBox {
	b.Paragraphs = append(b.Paragraphs, p)
	return b
}

// Slide is one slide on the blank layout.
type Slide struct {
	Boxes []*TextBox
}

// AddTextBox places a new empty text box on the slide.
func (s *Slide) AddTextBox(left, top, width, height EMU) *TextBox {
	b := &TextBox{Left: left, Top: top, Width: width, Height: height}
	s.Boxes = append(s.Boxes, b)
	return b
}

// Presentation is an in-memory deck.
type Presentation struct {
	Size   Size
	Title  string
	Slides []*Slide
}

// New returns an empty presentation of the given size.
func New(size Size) *Presentation {
	return &Presentation{Size: size}
}

// AddSlide appends a blank slide.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{}
	p.Slides = append(p.Slides, s)
	return s
}

// Save writes the presentation to path. A permission failure wraps
// ErrOutputLocked.
func (p *Presentation) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrOutputLocked, path)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// WriteTo lets a Presentation be used as an io.WriterTo.
func (p *Presentation) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := p.Write(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
