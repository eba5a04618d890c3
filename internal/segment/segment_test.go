// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/exam-deck/pkg/types"
)

func q(ordinal, marker, body string) types.Question {
	return types.Question{Ordinal: ordinal, Marker: marker, Body: body}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle string
		want      []types.Question
	}{
		{
			name:      "title and two questions",
			text:      "T\n1. A\n2. B",
			wantTitle: "T",
			want:      []types.Question{q("1", "1.", "A"), q("2", "2.", "B")},
		},
		{
			name:      "answer markers stay in the body",
			text:      "1. What is 2+2?\n【答案】4\n2. What is 3+3?\n【答案】6",
			wantTitle: DefaultTitle,
			want: []types.Question{
				q("1", "1.", "What is 2+2?\n【答案】4"),
				q("2", "2.", "What is 3+3?\n【答案】6"),
			},
		},
		{
			name:      "no markers keeps whole text as title",
			text:      "  Just a heading\nand some prose.  \n",
			wantTitle: "Just a heading\nand some prose.",
			want:      []types.Question{},
		},
		{
			name:      "out of order and duplicate ordinals are preserved",
			text:      "2. second\n1. first\n1. again",
			wantTitle: DefaultTitle,
			want:      []types.Question{q("2", "2.", "second"), q("1", "1.", "first"), q("1", "1.", "again")},
		},
		{
			name:      "full-width period and enumeration mark",
			text:      "期中考试\n1．甲\n2、乙",
			wantTitle: "期中考试",
			want:      []types.Question{q("1", "1．", "甲"), q("2", "2、", "乙")},
		},
		{
			name:      "bracket lookahead is not consumed",
			text:      "3【单选】下列说法正确的是",
			wantTitle: DefaultTitle,
			want:      []types.Question{q("3", "3", "【单选】下列说法正确的是")},
		},
		{
			name:      "whitespace separator",
			text:      "Quiz\n7 Name the capital.\n8\tName the river.",
			wantTitle: "Quiz",
			want:      []types.Question{q("7", "7", "Name the capital."), q("8", "8", "Name the river.")},
		},
		{
			name:      "indented markers are still line anchored",
			text:      "Quiz\n   1. A\n\t2. B",
			wantTitle: "Quiz",
			want:      []types.Question{q("1", "1.", "A"), q("2", "2.", "B")},
		},
		{
			name:      "numerals inside a line are not split",
			text:      "1. Compute 3. Then add 4. and report.\nsee 5. below",
			wantTitle: DefaultTitle,
			want:      []types.Question{q("1", "1.", "Compute 3. Then add 4. and report.\nsee 5. below")},
		},
		{
			name:      "digits followed by other text are not markers",
			text:      "2024年期末\n12abc\n1. real",
			wantTitle: "2024年期末\n12abc",
			want:      []types.Question{q("1", "1.", "real")},
		},
		{
			name:      "whitespace-only bodies are kept as empty strings",
			text:      "1.   \n2. B",
			wantTitle: DefaultTitle,
			want:      []types.Question{q("1", "1.", ""), q("2", "2.", "B")},
		},
		{
			name:      "multi-digit ordinals",
			text:      "10. ten\n11. eleven",
			wantTitle: DefaultTitle,
			want:      []types.Question{q("10", "10.", "ten"), q("11", "11.", "eleven")},
		},
		{
			name:      "digits at end of text are not a marker",
			text:      "Title\n42",
			wantTitle: "Title\n42",
			want:      []types.Question{},
		},
		{
			name:      "empty input",
			text:      "",
			wantTitle: DefaultTitle,
			want:      []types.Question{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.text)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.want, got.Questions)
		})
	}
}

func TestSegment_NoMarkersIsEmpty(t *testing.T) {
	docs := []string{
		"Preface only",
		"第一部分\n选择题",
		"a. lettered\nb. items",
	}
	for _, doc := range docs {
		seg := Segment(doc)
		assert.True(t, seg.Empty(), doc)
		assert.Equal(t, strings.TrimSpace(doc), seg.Title)
	}
}

func TestSegment_SubListStaysInBodyWithoutLineStart(t *testing.T) {
	text := "1. List the steps: (a) 3. sub-item inline\n2. Next"
	seg := Segment(text)
	require.Len(t, seg.Questions, 2)
	assert.Contains(t, seg.Questions[0].Body, "3. sub-item")
}

func TestSegmenter_PlainConfig(t *testing.T) {
	s := New(PlainConfig())

	seg := s.Segment("1、not a marker here\n2【also not】\n3. yes")
	require.Len(t, seg.Questions, 1)
	assert.Equal(t, "3", seg.Questions[0].Ordinal)
	assert.Equal(t, "1、not a marker here\n2【also not】", seg.Title)
}

func TestSegmenter_CustomConfig(t *testing.T) {
	s := New(types.SegmentConfig{Separators: ")", DefaultTitle: "Untitled"})

	seg := s.Segment("1) one\n2. not split\n3 not split either\n4) four")
	assert.Equal(t, "Untitled", seg.Title)
	require.Len(t, seg.Questions, 2)
	assert.Equal(t, "one\n2. not split\n3 not split either", seg.Questions[0].Body)
	assert.Equal(t, "4)", seg.Questions[1].Marker)
}

func TestSegmenter_EmptyDefaultTitle(t *testing.T) {
	s := New(types.SegmentConfig{Separators: ".", DefaultTitle: ""})
	seg := s.Segment("1. only")
	assert.Equal(t, "", seg.Title)
}

func TestMarkers(t *testing.T) {
	text := "Head\n1. a\n  22．b"
	markers := New(DefaultConfig()).Markers(text)
	require.Len(t, markers, 2)

	assert.Equal(t, "1", markers[0].Ordinal)
	assert.Equal(t, "1.", text[markers[0].Start:markers[0].End])
	assert.Equal(t, "22", markers[1].Ordinal)
	assert.Equal(t, "22．", markers[1].Text)
	assert.Equal(t, strings.Index(text, "22"), markers[1].Start)
}

func TestMarkers_NewlineSeparatorDoesNotHideNextLine(t *testing.T) {
	markers := New(DefaultConfig()).Markers("1\n2\nthree")
	require.Len(t, markers, 2)
	assert.Equal(t, "1", markers[0].Ordinal)
	assert.Equal(t, "2", markers[1].Ordinal)

	seg := Segment("1\n2. two")
	require.Len(t, seg.Questions, 2)
	assert.Equal(t, "", seg.Questions[0].Body)
	assert.Equal(t, "two", seg.Questions[1].Body)
}

func TestJoin_RoundTrip(t *testing.T) {
	docs := []string{
		"T\n1. A\n2. B",
		"1. What is 2+2?\n【答案】4\n2. What is 3+3?\n【答案】6",
		"Exam\n  3【单选】pick one\n4、fill in\n5 short answer\n\n\n6．  ",
		"no markers at all",
		"2. second\n1. first",
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			seg := Segment(doc)
			again := Segment(Join(seg))
			assert.Equal(t, seg, again)
		})
	}
}

func TestJoin_PreservesContent(t *testing.T) {
	doc := "T\n1. A\n2. B"
	assert.Equal(t, doc, Join(Segment(doc)))
}

func TestConfigForStyle(t *testing.T) {
	assert.Equal(t, PlainConfig(), ConfigForStyle(types.StylePlain))
	assert.Equal(t, DefaultConfig(), ConfigForStyle(types.StyleNumbered))
	assert.Equal(t, DefaultConfig(), ConfigForStyle(""))
}
