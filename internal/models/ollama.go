package models

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"

	"github.com/mnording/kompis/internal/config"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaTimeout = 5 * time.Minute
)

// NewOllama creates a ChatModel for a local or proxied Ollama server.
// Local models can be slow to load, hence the generous default timeout.
func NewOllama(ctx context.Context, cfg config.ProviderConfig) (model.ToolCallingChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = defaultOllamaTimeout
	}

	return einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   cfg.Model,
		Timeout: timeout,
		Options: ollamaOptions(cfg),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &jsonOnlyTransport{inner: http.DefaultTransport, provider: "ollama"},
		},
	})
}

// ollamaOptions maps the free-form provider options onto Ollama's
// sampling knobs. JSON numbers arrive as float64, so everything is
// asserted from there. MaxTokens seeds num_predict; an explicit
// num_predict option wins.
func ollamaOptions(cfg config.ProviderConfig) *einoollama.Options {
	opts := &einoollama.Options{}
	if cfg.MaxTokens > 0 {
		opts.NumPredict = cfg.MaxTokens
	}

	for key, raw := range cfg.Options {
		v, ok := raw.(float64)
		if !ok {
			continue
		}
		switch key {
		case "temperature":
			opts.Temperature = float32(v)
		case "num_ctx":
			opts.NumCtx = int(v)
		case "num_predict":
			opts.NumPredict = int(v)
		case "top_p":
			opts.TopP = float32(v)
		case "top_k":
			opts.TopK = int(v)
		}
	}
	return opts
}

// jsonOnlyTransport rejects responses that cannot be Ollama's: error
// statuses, and bodies without a JSON content type. Reverse proxies in
// front of Ollama answer with plain text ("no available server") that
// would otherwise surface as an opaque decode failure.
type jsonOnlyTransport struct {
	inner    http.RoundTripper
	provider string
}

func (t *jsonOnlyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, &ErrModelUnavailable{Provider: t.provider, Cause: err}
	}
	if resp.StatusCode >= 400 {
		return nil, t.refuse(resp)
	}
	// Streaming responses use application/x-ndjson.
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return nil, t.refuse(resp)
	}
	return resp, nil
}

func (t *jsonOnlyTransport) refuse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	return &ErrModelUnavailable{
		Provider: t.provider,
		Body:     strings.TrimSpace(string(body)),
	}
}
