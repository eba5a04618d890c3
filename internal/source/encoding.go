// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts data to a string. UTF-8 is tried first; then each
// fallback encoding in order. A fallback that produces replacement
// characters is treated as a failed decode.
func (r *Reader) decode(path string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, name := range r.encodings {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("unknown fallback encoding %q: %w", name, err)
		}
		r.log.Info("UTF-8 decode failed, trying fallback encoding",
			zap.String("path", path), zap.String("encoding", name))

		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return string(out), nil
	}

	return "", fmt.Errorf("decoding %s: not valid UTF-8 or any of [%s]", path, strings.Join(r.encodings, ", "))
}
