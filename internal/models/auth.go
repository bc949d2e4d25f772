package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/mnording/kompis/internal/config"
)

// defaultEnvVars maps drivers to the env var their API key defaults to.
var defaultEnvVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"groq":      "GROQ_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// ResolveAPIKey resolves the API key for a provider.
// Resolution order: direct api_key → ${VAR} indirection → driver default env.
// Ollama needs no key and always resolves to "".
func ResolveAPIKey(cfg config.ProviderConfig) (string, error) {
	key := strings.TrimSpace(cfg.Auth.APIKey)
	if key != "" {
		if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
			return os.Getenv(key[2 : len(key)-1]), nil
		}
		return key, nil
	}

	driver := strings.ToLower(cfg.Driver)
	if driver == "ollama" {
		return "", nil
	}

	envVar, ok := defaultEnvVars[driver]
	if !ok {
		return "", fmt.Errorf("unknown driver %q: cannot resolve auth", cfg.Driver)
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s not set", envVar)
}
