package types

import "time"

// SegmentConfig controls how ordinal markers are recognized.
type SegmentConfig struct {
	// Separators lists the runes that may follow the digits of a marker and
	// are consumed with it (default ".", "．", "、").
	Separators string `json:"separators" yaml:"separators" mapstructure:"separators"`

	// Whitespace allows any Unicode whitespace rune to act as a consumed
	// separator.
	Whitespace bool `json:"whitespace" yaml:"whitespace" mapstructure:"whitespace"`

	// Lookahead lists runes that end a marker without being consumed; the
	// rune stays at the start of the body (default "【").
	Lookahead string `json:"lookahead" yaml:"lookahead" mapstructure:"lookahead"`

	// DefaultTitle replaces an empty title.
	DefaultTitle string `json:"default_title" yaml:"default_title" mapstructure:"default_title"`
}

// SourceConfig holds settings for reading input documents.
type SourceConfig struct {
	// FallbackEncodings are tried in order when a text file is not valid
	// UTF-8 (default ["gbk"]).
	FallbackEncodings []string `json:"fallback_encodings" yaml:"fallback_encodings" mapstructure:"fallback_encodings"`
}

// LLMProvider identifies the chat-completion backend.
type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderGemini LLMProvider = "gemini"
)

// LLMConfig holds the credentials and endpoint for the restructuring call.
// It is passed explicitly to the backend constructor.
type LLMConfig struct {
	// Provider selects the backend: openai (any OpenAI-compatible endpoint)
	// or gemini.
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// BaseURL is the OpenAI-compatible API root (e.g. "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Model is the model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Temperature is the sampling temperature (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// Timeout bounds a single API call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of retries on rate limiting (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// DeckStyle selects the slide layout for segmented documents.
type DeckStyle string

const (
	// StyleNumbered renders a cover slide and "N. body" slides in 4:3.
	StyleNumbered DeckStyle = "numbered"
	// StylePlain renders "marker body" slides in 16:9 without a cover.
	StylePlain DeckStyle = "plain"
)

// DeckConfig holds slide styling.
type DeckConfig struct {
	// Font is the typeface applied to every run (default "Microsoft YaHei").
	Font string `json:"font" yaml:"font" mapstructure:"font"`

	// Subtitle is the cover slide subtitle for the numbered style.
	Subtitle string `json:"subtitle" yaml:"subtitle" mapstructure:"subtitle"`

	// BodySize is the body text size in points (default 20).
	BodySize float64 `json:"body_size" yaml:"body_size" mapstructure:"body_size"`
}

// BankConfig holds settings for the question bank.
type BankConfig struct {
	// Dir is the directory holding bank.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default search limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups every section of examdeck.yaml.
type Config struct {
	Segment SegmentConfig `json:"segment" yaml:"segment" mapstructure:"segment"`
	Source  SourceConfig  `json:"source" yaml:"source" mapstructure:"source"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Deck    DeckConfig    `json:"deck" yaml:"deck" mapstructure:"deck"`
	Bank    BankConfig    `json:"bank" yaml:"bank" mapstructure:"bank"`
}
