// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// pdfText extracts the plain text of every page, pages separated by a
// newline. Pages whose text cannot be extracted are skipped.
func pdfText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimRight(text, "\n"))
	}
	return strings.Join(pages, "\n"), nil
}
