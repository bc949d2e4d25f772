package imagegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mnording/kompis/internal/config"
)

const defaultImageModel = "dall-e-3"

// dallE2Sizes are the only sizes dall-e-2 accepts.
var dallE2Sizes = map[string]bool{
	"256x256":   true,
	"512x512":   true,
	"1024x1024": true,
}

// openAIGenerator drives the OpenAI images API. It knows the quirks of
// each model family: dall-e-2's limited size set, dall-e-3's style knob,
// and gpt-image-1 returning base64 only.
type openAIGenerator struct {
	client  openai.Client
	model   string
	size    string
	quality string
}

func newOpenAIGenerator(cfg config.ImagesConfig) (*openAIGenerator, error) {
	apiKey := strings.TrimSpace(cfg.Auth.APIKey)
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if cfg.Timeout.Duration() > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout.Duration()))
	}

	model := cfg.Model
	if model == "" {
		model = defaultImageModel
	}

	size := cfg.Size
	if size == "" {
		size = "1024x1024"
	}

	return &openAIGenerator{
		client:  openai.NewClient(opts...),
		model:   model,
		size:    size,
		quality: cfg.Quality,
	}, nil
}

// normalizeSize clamps the requested size to what the model accepts.
// dall-e-2 only knows three square sizes; anything else silently
// becomes 1024x1024.
func normalizeSize(model, size string) string {
	if size == "" {
		size = "1024x1024"
	}
	if model == "dall-e-2" && !dallE2Sizes[size] {
		size = "1024x1024"
	}
	return size
}

func (g *openAIGenerator) Generate(ctx context.Context, req Request) (*Image, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	size := req.Size
	if size == "" {
		size = g.size
	}
	quality := req.Quality
	if quality == "" {
		quality = g.quality
	}

	params := openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(model),
		Size:   openai.ImageGenerateParamsSize(normalizeSize(model, size)),
		N:      openai.Int(1),
	}

	switch {
	case model == "dall-e-3":
		params.Style = openai.ImageGenerateParamsStyleVivid
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatURL
	case strings.HasPrefix(model, "gpt-image"):
		// gpt-image-1 always returns base64 and rejects response_format.
		if quality != "" {
			params.Quality = openai.ImageGenerateParamsQuality(quality)
		}
	default:
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatURL
	}

	resp, err := g.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("generate image: empty response")
	}

	img := &Image{
		URL:  resp.Data[0].URL,
		B64:  resp.Data[0].B64JSON,
		MIME: "image/png",
	}
	if img.URL == "" && img.B64 == "" {
		return nil, fmt.Errorf("generate image: response carried no image data")
	}
	return img, nil
}
