// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"github.com/pdiddy/exam-deck/pkg/types"
)

// Placeholders used for a restructured record with no sub-questions.
const (
	NoQuestion = "（无小题问题）"
	NoAnswer   = "（无答案）"
)

var (
	questionColor = RGB{R: 0, G: 51, B: 153}
	answerColor   = RGB{R: 204, G: 0, B: 0}
)

// DefaultConfig returns the slide styling used when none is configured.
func DefaultConfig() types.DeckConfig {
	return types.DeckConfig{
		Font:     "Microsoft YaHei",
		Subtitle: "生成工具",
		BodySize: 20,
	}
}

func withDefaults(cfg types.DeckConfig) types.DeckConfig {
	if cfg.BodySize <= 0 {
		cfg.BodySize = DefaultConfig().BodySize
	}
	return cfg
}

// ForStyle renders a segmentation with the layout for style. Unknown
// styles fall back to the numbered layout.
func ForStyle(style types.DeckStyle, seg types.Segmentation, cfg types.DeckConfig) *Presentation {
	if style == types.StylePlain {
		return PlainDeck(seg, cfg)
	}
	return NumberedDeck(seg, cfg)
}

// NumberedDeck renders a 4:3 deck: a cover slide with the title and the
// configured subtitle, then one slide per question reading "N. body".
func NumberedDeck(seg types.Segmentation, cfg types.DeckConfig) *Presentation {
	cfg = withDefaults(cfg)
	p := New(Standard)
	p.Title = seg.Title

	cover := p.AddSlide()
	cover.AddTextBox(Inches(0.75), Inches(2.3), Inches(8.5), Inches(1.5)).AddParagraph(Paragraph{
		Text: seg.Title, Size: 40, Bold: true, Font: cfg.Font, Align: AlignCenter,
	})
	if cfg.Subtitle != "" {
		cover.AddTextBox(Inches(0.75), Inches(4.0), Inches(8.5), Inches(1.0)).AddParagraph(Paragraph{
			Text: cfg.Subtitle, Size: 24, Font: cfg.Font, Align: AlignCenter,
		})
	}

	inset := Inches(0.5)
	for _, q := range seg.Questions {
		s := p.AddSlide()
		s.AddTextBox(inset, inset, p.Size.Width-2*inset, p.Size.Height-2*inset).AddParagraph(Paragraph{
			Text: q.Ordinal + ". " + q.Body,
			Size: cfg.BodySize,
			Font: cfg.Font,
		})
	}
	return p
}

// PlainDeck renders a 16:9 deck with one slide per question reading
// "marker body" and no cover.
func PlainDeck(seg types.Segmentation, cfg types.DeckConfig) *Presentation {
	cfg = withDefaults(cfg)
	p := New(Widescreen)
	p.Title = seg.Title

	for _, q := range seg.Questions {
		s := p.AddSlide()
		s.AddTextBox(Inches(0.5), Inches(0.5), Inches(12.3), Inches(6.5)).AddParagraph(Paragraph{
			Text: q.Marker + " " + q.Body,
			Size: cfg.BodySize,
			Font: cfg.Font,
		})
	}
	return p
}

// QADeck renders restructured records in 16:9, one slide per question and
// answer pair. Each slide repeats the record description above the pair.
func QADeck(records []types.QARecord, cfg types.DeckConfig) *Presentation {
	cfg = withDefaults(cfg)
	p := New(Widescreen)

	for _, r := range records {
		description := string(r.ID) + ". " + r.Description
		pairs := r.QAPairs
		if len(pairs) == 0 {
			pairs = []types.QAPair{{Question: NoQuestion, Answer: NoAnswer}}
		}

		for _, qa := range pairs {
			s := p.AddSlide()
			s.AddTextBox(Inches(0.5), Inches(0.3), Inches(12.33), Inches(3.0)).AddParagraph(Paragraph{
				Text: description, Size: cfg.BodySize, Font: cfg.Font,
			})
			s.AddTextBox(Inches(0.5), Inches(3.5), Inches(12.33), Inches(1.5)).AddParagraph(Paragraph{
				Text: "【问题】" + qa.Question, Size: 24, Bold: true, Color: &questionColor, Font: cfg.Font,
			})
			s.AddTextBox(Inches(0.5), Inches(5.2), Inches(12.33), Inches(2.0)).AddParagraph(Paragraph{
				Text: "【答案】\n" + qa.Answer, Size: 22, Color: &answerColor, Font: cfg.Font,
			})
		}
	}
	return p
}

// SlideCount returns the number of slides QADeck produces for records.
func SlideCount(records []types.QARecord) int {
	n := 0
	for _, r := range records {
		n += max(len(r.QAPairs), 1)
	}
	return n
}
