package config

import "time"

// Config is the root configuration for Kompis.
type Config struct {
	Language  string          `json:"language"` // "en" or "sv"
	Models    ModelsConfig    `json:"models"`
	Images    ImagesConfig    `json:"images"`
	WebSearch WebSearchConfig `json:"web_search"`
	DocQA     DocQAConfig     `json:"docqa"`
	Events    EventsConfig    `json:"events"`
}

// ModelsConfig holds chat model provider configuration.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver       string              `json:"driver"` // "openai", "groq", "anthropic", "gemini", "ollama"
	Model        string              `json:"model"`
	BaseURL      string              `json:"base_url,omitempty"`
	Auth         AuthConfig          `json:"auth"`
	MaxTokens    int                 `json:"max_tokens,omitempty"`
	Timeout      Duration            `json:"timeout,omitempty"`
	Options      map[string]any      `json:"options,omitempty"`
	Capabilities *CapabilityOverride `json:"capabilities,omitempty"`
}

// CapabilityOverride lets a config entry override the built-in capability
// table for models the table does not know about.
type CapabilityOverride struct {
	Tools       *bool `json:"tools,omitempty"`
	Vision      *bool `json:"vision,omitempty"`
	Temperature *bool `json:"temperature,omitempty"`
}

// AuthConfig configures API key resolution.
type AuthConfig struct {
	APIKey string `json:"api_key,omitempty"` // Direct API key or ${VAR} indirection
}

// ImagesConfig configures the image generation service.
type ImagesConfig struct {
	Driver  string     `json:"driver"`  // "openai" (default) or "google"
	Model   string     `json:"model"`   // "dall-e-2", "dall-e-3", "gpt-image-1", "imagen-3.0-generate-002"
	Size    string     `json:"size"`    // default generation size
	Quality string     `json:"quality"` // gpt-image-1 only: "medium" or "high"
	Auth    AuthConfig `json:"auth"`
	Timeout Duration   `json:"timeout,omitempty"`
}

// WebSearchConfig configures the web search service.
type WebSearchConfig struct {
	Provider     string   `json:"provider"` // "duckduckgo" (default), "google", "bing"
	MaxResults   int      `json:"max_results"`
	Timeout      Duration `json:"timeout,omitempty"`
	GoogleAPIKey string   `json:"google_api_key,omitempty"`
	GoogleCX     string   `json:"google_cx,omitempty"`
	BingAPIKey   string   `json:"bing_api_key,omitempty"`
}

// DocQAConfig configures document question answering.
type DocQAConfig struct {
	Embedding EmbeddingConfig `json:"embedding"`
	TopK      int             `json:"top_k"`
	ChunkSize int             `json:"chunk_size"`
	Overlap   int             `json:"overlap"`
}

// EmbeddingConfig configures the embedding provider for document retrieval.
type EmbeddingConfig struct {
	Driver  string     `json:"driver"` // "openai" (default) or "ollama"
	Model   string     `json:"model"`
	BaseURL string     `json:"base_url,omitempty"`
	Dims    int        `json:"dims,omitempty"`
	Auth    AuthConfig `json:"auth"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
