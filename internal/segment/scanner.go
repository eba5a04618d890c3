// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Marker is one ordinal marker found by the scanner. Offsets are byte
// offsets into the scanned text.
type Marker struct {
	// Start is the offset of the first digit.
	Start int
	// End is the offset just past the consumed separator. For a lookahead
	// match End is the offset of the lookahead rune.
	End int
	// Ordinal is the digit text.
	Ordinal string
	// Text is text[Start:End] with surrounding whitespace trimmed.
	Text string
}

// scanner recognizes line-anchored ordinal markers in a single pass.
type scanner struct {
	separators map[rune]bool
	lookahead  map[rune]bool
	whitespace bool
}

func newScanner(separators, lookahead string, whitespace bool) *scanner {
	return &scanner{
		separators: runeSet(separators),
		lookahead:  runeSet(lookahead),
		whitespace: whitespace,
	}
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

// scan returns every marker in text in source order. Candidates are the
// start of the text and every position just after a '\n'; a candidate
// inside the previous marker is skipped, so markers never overlap.
// A marker whose separator is a '\n' ends at the next line start, which is
// still a candidate: "1\n2. two" yields two markers, not "1" with "2. two"
// as its body.
func (s *scanner) scan(text string) []Marker {
	var markers []Marker
	minStart := 0
	lineStart := 0
	for {
		if lineStart >= minStart {
			if m, ok := s.matchAt(text, lineStart); ok {
				markers = append(markers, m)
				minStart = m.End
			}
		}
		i := strings.IndexByte(text[lineStart:], '\n')
		if i < 0 {
			break
		}
		lineStart += i + 1
	}
	return markers
}

// matchAt tries to read a marker at a line start: optional horizontal
// whitespace, one or more decimal digits, then a separator, a whitespace
// rune, or a lookahead rune.
func (s *scanner) matchAt(text string, pos int) (Marker, bool) {
	i := pos
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' || !unicode.IsSpace(r) {
			break
		}
		i += size
	}

	start := i
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	if i == start || i >= len(text) {
		return Marker{}, false
	}
	digitsEnd := i

	r, size := utf8.DecodeRuneInString(text[i:])
	var end int
	switch {
	case s.separators[r]:
		end = i + size
	case s.whitespace && unicode.IsSpace(r):
		end = i + size
	case s.lookahead[r]:
		end = i
	default:
		return Marker{}, false
	}

	return Marker{
		Start:   start,
		End:     end,
		Ordinal: text[start:digitsEnd],
		Text:    strings.TrimSpace(text[start:end]),
	}, true
}
