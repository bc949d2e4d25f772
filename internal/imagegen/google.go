package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/mnording/kompis/internal/config"
)

const defaultImagenModel = "imagen-3.0-generate-002"

// googleGenerator drives the Imagen models via the Gemini API.
type googleGenerator struct {
	apiKey string
	model  string
}

func newGoogleGenerator(cfg config.ImagesConfig) (*googleGenerator, error) {
	apiKey := strings.TrimSpace(cfg.Auth.APIKey)
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("imagegen: google driver requires an API key")
	}

	model := cfg.Model
	if model == "" {
		model = defaultImagenModel
	}

	return &googleGenerator{apiKey: apiKey, model: model}, nil
}

func (g *googleGenerator) Generate(ctx context.Context, req Request) (*Image, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	resp, err := client.Models.GenerateImages(ctx, model, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("generate image: empty response")
	}

	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}

	return &Image{
		B64:  base64.StdEncoding.EncodeToString(img.ImageBytes),
		MIME: mime,
	}, nil
}
