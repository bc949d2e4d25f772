package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/mnording/kompis/internal/config"
)

// CreateModel creates a model.ToolCallingChatModel from a provider config.
func CreateModel(ctx context.Context, cfg config.ProviderConfig) (model.ToolCallingChatModel, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "ollama" {
		return NewOllama(ctx, cfg)
	}

	apiKey, err := ResolveAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve auth: %w", err)
	}

	switch driver {
	case "openai":
		return NewOpenAI(ctx, cfg, apiKey)
	case "groq":
		return NewGroq(ctx, cfg, apiKey)
	case "anthropic":
		return NewAnthropic(ctx, cfg, apiKey)
	case "gemini":
		return NewGemini(ctx, cfg, apiKey)
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}
