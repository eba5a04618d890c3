// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownText flattens a Markdown document into plain text. Ordered list
// items get their marker back as written in the source, since goldmark
// keeps it out of the item text.
func markdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := blockText(n, src); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func blockText(n ast.Node, src []byte) string {
	switch node := n.(type) {
	case *ast.ThematicBreak:
		return ""
	case *ast.List:
		var items []string
		num := node.Start
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			t := containerText(c, src)
			if node.IsOrdered() {
				marker, ok := itemMarker(c, src)
				if !ok {
					marker = fmt.Sprintf("%d%c", num, node.Marker)
				}
				t = marker + " " + t
			}
			num++
			items = append(items, t)
		}
		return strings.Join(items, "\n")
	}
	return containerText(n, src)
}

// itemMarker returns the literal "N." or "N)" that opens an ordered list
// item: the source text from the start of the item's line up to its first
// content line.
func itemMarker(item ast.Node, src []byte) (string, bool) {
	n := item.FirstChild()
	for n != nil && n.Lines().Len() == 0 {
		n = n.FirstChild()
	}
	if n == nil {
		return "", false
	}
	start := n.Lines().At(0).Start
	lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
	marker := strings.TrimSpace(string(src[lineStart:start]))

	digits := strings.TrimRight(marker, ".)")
	if len(digits) != len(marker)-1 || digits == "" {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return marker, true
}

// containerText returns the source lines of a leaf block, or the joined
// text of a container block's children.
func containerText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	if lines := n.Lines(); lines.Len() > 0 {
		out := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out = append(out, strings.TrimRight(string(seg.Value(src)), "\r\n"))
		}
		return strings.TrimSpace(strings.Join(out, "\n"))
	}

	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
