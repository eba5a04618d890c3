// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package restructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/exam-deck/pkg/types"
)

// DefaultLLMConfig points at Gemini's OpenAI-compatible endpoint.
func DefaultLLMConfig() types.LLMConfig {
	return types.LLMConfig{
		Provider:    types.ProviderOpenAI,
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai",
		Model:       "gemini-2.5-flash",
		Temperature: 0.1,
		Timeout:     2 * time.Minute,
		MaxRetries:  5,
	}
}

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(ctx context.Context, cfg types.LLMConfig, log *zap.Logger) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key not set: use llm.api_key, EXAMDECK_LLM_API_KEY, or .secrets/llm-api-key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model not set")
	}

	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("LLM base URL not set")
		}
		return &ChatBackend{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxRetries:  cfg.MaxRetries,
			Client:      &http.Client{Timeout: cfg.Timeout},
			Log:         log,
		}, nil
	case types.ProviderGemini:
		return NewGeminiBackend(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q: use openai or gemini", cfg.Provider)
	}
}
