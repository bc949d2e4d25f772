package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadJSONC(t *testing.T) {
	content := `{
	// model wiring
	"models": {
		"default": "groq",
		"providers": {
			"groq": {
				"driver": "groq",
				"model": "meta-llama/llama-4-scout-17b-16e-instruct",
				"timeout": "45s",
				"auth": { "api_key": "${{ .Env.TEST_GROQ_KEY }}" },
			},
		},
	},
	"web_search": {
		"provider": "google",
		"max_results": 3,
	},
}`

	t.Setenv("TEST_GROQ_KEY", "gsk-test-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Models.Default != "groq" {
		t.Errorf("default provider: got %q, want %q", cfg.Models.Default, "groq")
	}
	p, ok := cfg.Models.Providers["groq"]
	if !ok {
		t.Fatal("groq provider missing")
	}
	if p.Auth.APIKey != "gsk-test-123" {
		t.Errorf("env template not expanded: got %q", p.Auth.APIKey)
	}
	if p.Timeout.Duration() != 45*time.Second {
		t.Errorf("timeout: got %v, want 45s", p.Timeout.Duration())
	}
	if cfg.WebSearch.Provider != "google" {
		t.Errorf("search provider: got %q", cfg.WebSearch.Provider)
	}
	if cfg.WebSearch.MaxResults != 3 {
		t.Errorf("max results: got %d, want 3", cfg.WebSearch.MaxResults)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Language != "en" {
		t.Errorf("language default: got %q", cfg.Language)
	}
	if cfg.Models.Default != "openai" {
		t.Errorf("default provider: got %q", cfg.Models.Default)
	}
	if cfg.Images.Model != "dall-e-3" {
		t.Errorf("image model default: got %q", cfg.Images.Model)
	}
	if cfg.WebSearch.Provider != "duckduckgo" {
		t.Errorf("search provider default: got %q", cfg.WebSearch.Provider)
	}
	if cfg.DocQA.TopK != 10 {
		t.Errorf("top_k default: got %d", cfg.DocQA.TopK)
	}
	if cfg.DocQA.ChunkSize != 1024 || cfg.DocQA.Overlap != 100 {
		t.Errorf("chunking defaults: got %d/%d", cfg.DocQA.ChunkSize, cfg.DocQA.Overlap)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.jsonc")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Models.Default == "" {
		t.Error("Default() should fill the default provider")
	}
	if _, ok := cfg.Models.Providers[cfg.Models.Default]; !ok {
		t.Errorf("default provider %q has no provider entry", cfg.Models.Default)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	var d Duration
	if err := d.UnmarshalJSON([]byte(`"1m30s"`)); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("got %v, want 1m30s", d.Duration())
	}

	out, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"1m30s"` {
		t.Errorf("marshal: got %s", out)
	}

	if err := d.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Error("expected error for invalid duration")
	}
}
