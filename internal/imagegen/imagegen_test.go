package imagegen

import (
	"testing"

	"github.com/mnording/kompis/internal/config"
)

func TestModifyPrompt(t *testing.T) {
	got := ModifyPrompt("a red fox in the snow", "make it blue")
	want := "Based on this previous idea: a red fox in the snow, now make it blue"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := ModifyPrompt("", "a red fox"); got != "a red fox" {
		t.Errorf("empty previous should pass prompt through, got %q", got)
	}
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(config.ImagesConfig{Driver: "stablediffusion"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		model, size, want string
	}{
		{"dall-e-2", "1792x1024", "1024x1024"}, // dall-e-3 size, invalid for dall-e-2
		{"dall-e-2", "512x512", "512x512"},
		{"dall-e-2", "", "1024x1024"},
		{"dall-e-3", "1792x1024", "1792x1024"},
		{"gpt-image-1", "", "1024x1024"},
	}
	for _, tt := range tests {
		if got := normalizeSize(tt.model, tt.size); got != tt.want {
			t.Errorf("normalizeSize(%s, %s) = %q, want %q", tt.model, tt.size, got, tt.want)
		}
	}
}

func TestOpenAIDefaults(t *testing.T) {
	g, err := newOpenAIGenerator(config.ImagesConfig{Auth: config.AuthConfig{APIKey: "sk-test"}})
	if err != nil {
		t.Fatal(err)
	}
	if g.model != "dall-e-3" {
		t.Errorf("model default: %q", g.model)
	}
	if g.size != "1024x1024" {
		t.Errorf("size default: %q", g.size)
	}
}

func TestGoogleRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := newGoogleGenerator(config.ImagesConfig{Driver: "google"})
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
}
