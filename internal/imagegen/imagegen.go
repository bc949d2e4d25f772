// Package imagegen turns text prompts into images via the configured
// provider.
package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/mnording/kompis/internal/config"
)

// Image is one generated image. Exactly one of URL or B64 is set,
// depending on what the backing model returns.
type Image struct {
	URL  string
	B64  string
	MIME string
}

// Request is one generation request. Model, Size, and Quality fall
// back to the configured defaults when empty.
type Request struct {
	Prompt  string
	Model   string
	Size    string
	Quality string
}

// Generator produces an image from a text prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}

// New creates a Generator for the configured driver.
// Supported: "openai" (default) and "google".
func New(cfg config.ImagesConfig) (Generator, error) {
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case "", "openai":
		return newOpenAIGenerator(cfg)
	case "google":
		return newGoogleGenerator(cfg)
	default:
		return nil, fmt.Errorf("imagegen: unknown driver %q", cfg.Driver)
	}
}

// ModifyPrompt composes a follow-up prompt that carries the previous idea
// along, so "make it blue" modifies the last image instead of starting over.
func ModifyPrompt(previous, prompt string) string {
	if previous == "" {
		return prompt
	}
	return fmt.Sprintf("Based on this previous idea: %s, now %s", previous, prompt)
}
