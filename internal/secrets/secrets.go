// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: llm-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/pkg/types"
)

// Key file names.
const (
	LLMAPIKey    = "llm-api-key"
	GeminiAPIKey = "gemini-api-key"
)

// Secrets maps key file names to their trimmed contents.
type Secrets map[string]string

// Lookup returns the value for key, or fallback when it is absent.
func (s Secrets) Lookup(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// APIKey returns the key for provider. The Gemini provider prefers
// gemini-api-key and falls back to llm-api-key.
func (s Secrets) APIKey(provider types.LLMProvider) string {
	if provider == types.ProviderGemini {
		if v := s.Lookup(GeminiAPIKey, ""); v != "" {
			return v
		}
	}
	return s.Lookup(LLMAPIKey, "")
}

// Load reads all files in dir and returns their trimmed contents by name.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log *zap.Logger) (Secrets, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
