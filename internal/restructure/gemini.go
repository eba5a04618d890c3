// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package restructure

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiBackend calls the Gemini API directly through the genai SDK.
type GeminiBackend struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiBackend creates a Gemini client for apiKey.
func NewGeminiBackend(ctx context.Context, apiKey, model string, temperature float64) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiBackend{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}, nil
}

// Complete sends prompt as a single user turn and returns the reply text.
func (g *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
