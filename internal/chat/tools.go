package chat

import "github.com/cloudwego/eino/schema"

const (
	ToolGenerateImage = "generate_image"
	ToolWebSearch     = "web_search"
)

// ToolSpecs returns the tool schemas advertised to tool-capable models.
func ToolSpecs() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolGenerateImage,
			Desc: "Generate an image from a text prompt. Use it when the user asks for a picture, drawing, or visualization.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"prompt": {
					Type:     schema.String,
					Desc:     "The image description, in English, detailed enough to draw from",
					Required: true,
				},
				"is_modification": {
					Type: schema.Boolean,
					Desc: "True when the user wants to change the previously generated image rather than start a new one",
				},
				"size": {
					Type: schema.String,
					Desc: "Requested image size",
					Enum: []string{"256x256", "512x512", "1024x1024", "1792x1024", "1024x1792"},
				},
				"quality": {
					Type: schema.String,
					Desc: "Rendering quality",
					Enum: []string{"medium", "high"},
				},
			}),
		},
		{
			Name: ToolWebSearch,
			Desc: "Search the web for current information. Use it for recent events, prices, weather, or anything beyond your training data.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "The search query",
					Required: true,
				},
				"include_answer": {
					Type: schema.String,
					Desc: "How much answer synthesis to ask the search provider for",
					Enum: []string{"basic", "advanced"},
				},
			}),
		},
	}
}
