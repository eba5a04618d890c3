// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/exam-deck/internal/deck"
	"github.com/pdiddy/exam-deck/internal/restructure"
	"github.com/pdiddy/exam-deck/internal/segment"
	"github.com/pdiddy/exam-deck/internal/source"
	"github.com/pdiddy/exam-deck/pkg/types"
)

// envKeyReplacer maps llm.api_key to EXAMDECK_LLM_API_KEY.
var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	seg := segment.DefaultConfig()
	v.SetDefault("segment.separators", seg.Separators)
	v.SetDefault("segment.whitespace", seg.Whitespace)
	v.SetDefault("segment.lookahead", seg.Lookahead)
	v.SetDefault("segment.default_title", seg.DefaultTitle)

	v.SetDefault("source.fallback_encodings", source.DefaultFallbackEncodings)

	llm := restructure.DefaultLLMConfig()
	v.SetDefault("llm.provider", string(llm.Provider))
	v.SetDefault("llm.base_url", llm.BaseURL)
	v.SetDefault("llm.model", llm.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", llm.Temperature)
	v.SetDefault("llm.timeout", llm.Timeout)
	v.SetDefault("llm.max_retries", llm.MaxRetries)

	d := deck.DefaultConfig()
	v.SetDefault("deck.font", d.Font)
	v.SetDefault("deck.subtitle", d.Subtitle)
	v.SetDefault("deck.body_size", d.BodySize)

	v.SetDefault("bank.dir", ".examdeck")
	v.SetDefault("bank.max_results", 20)
}

// loadConfig decodes the merged viper settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// deckStyle reads and validates the --style flag.
func deckStyle(cmd *cobra.Command) (types.DeckStyle, error) {
	s, _ := cmd.Flags().GetString("style")
	switch style := types.DeckStyle(s); style {
	case types.StyleNumbered, types.StylePlain:
		return style, nil
	default:
		return "", fmt.Errorf("unsupported style %q: use numbered or plain", s)
	}
}

// segmentConfig returns the configured marker rules. The plain style starts
// from its narrower preset; segment keys set in the config file or the
// environment still override it.
func segmentConfig(cfg types.Config, style types.DeckStyle) types.SegmentConfig {
	if style != types.StylePlain {
		return cfg.Segment
	}
	seg := segment.PlainConfig()
	if segmentKeySet("separators") {
		seg.Separators = cfg.Segment.Separators
	}
	if segmentKeySet("whitespace") {
		seg.Whitespace = cfg.Segment.Whitespace
	}
	if segmentKeySet("lookahead") {
		seg.Lookahead = cfg.Segment.Lookahead
	}
	if segmentKeySet("default_title") {
		seg.DefaultTitle = cfg.Segment.DefaultTitle
	}
	return seg
}

// segmentKeySet reports whether segment.<key> comes from the config file or
// an EXAMDECK_SEGMENT_* variable rather than a default.
func segmentKeySet(key string) bool {
	full := "segment." + key
	if viper.InConfig(full) {
		return true
	}
	_, ok := os.LookupEnv("EXAMDECK_" + strings.ToUpper(envKeyReplacer.Replace(full)))
	return ok
}

// llmConfig merges configuration, flags, and .secrets/ into the backend
// settings. Flags win over configuration; the secrets file fills an empty
// API key.
func llmConfig(cmd *cobra.Command, cfg types.Config) types.LLMConfig {
	llm := cfg.LLM
	if cmd.Flags().Changed("provider") {
		p, _ := cmd.Flags().GetString("provider")
		llm.Provider = types.LLMProvider(p)
	}
	if cmd.Flags().Changed("model") {
		llm.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("base-url") {
		llm.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("temperature") {
		llm.Temperature, _ = cmd.Flags().GetFloat64("temperature")
	}
	if llm.APIKey == "" {
		llm.APIKey = loadedSecrets.APIKey(llm.Provider)
	}
	return llm
}
