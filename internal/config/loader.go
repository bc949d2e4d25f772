package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/tailscale/hujson"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load reads a JSONC config file, strips comments, expands ${{ .Env.VAR }}
// templates, unmarshals it into Config, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variable templates (before standardizing, since
	// templates live inside strings)
	expanded := expandEnvTemplates(string(data))

	std, err := hujson.Standardize([]byte(expanded))
	if err != nil {
		return nil, fmt.Errorf("standardize config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a ready-to-use config with no file on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Models.Providers == nil {
		cfg.Models.Providers = map[string]ProviderConfig{
			"openai": {Driver: "openai", Model: "gpt-4.1"},
		}
	}
	if cfg.Models.Default == "" {
		if _, ok := cfg.Models.Providers["openai"]; ok {
			cfg.Models.Default = "openai"
		} else {
			for name := range cfg.Models.Providers {
				cfg.Models.Default = name
				break
			}
		}
	}
	if cfg.Images.Driver == "" {
		cfg.Images.Driver = "openai"
	}
	if cfg.Images.Model == "" {
		cfg.Images.Model = "dall-e-3"
	}
	if cfg.Images.Size == "" {
		cfg.Images.Size = "1024x1024"
	}
	if cfg.Images.Quality == "" {
		cfg.Images.Quality = "medium"
	}
	if cfg.WebSearch.Provider == "" {
		cfg.WebSearch.Provider = "duckduckgo"
	}
	if cfg.WebSearch.MaxResults == 0 {
		cfg.WebSearch.MaxResults = 5
	}
	if cfg.DocQA.Embedding.Driver == "" {
		cfg.DocQA.Embedding.Driver = "openai"
	}
	if cfg.DocQA.Embedding.Model == "" {
		cfg.DocQA.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.DocQA.TopK == 0 {
		cfg.DocQA.TopK = 10
	}
	if cfg.DocQA.ChunkSize == 0 {
		cfg.DocQA.ChunkSize = 1024
	}
	if cfg.DocQA.Overlap == 0 {
		cfg.DocQA.Overlap = 100
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 1024
	}
}
