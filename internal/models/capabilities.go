package models

import (
	"strings"

	"github.com/mnording/kompis/internal/config"
)

// Capabilities describes what a chat model supports. The orchestrator
// consults this once per turn to decide whether to advertise tools,
// send image parts, or set a temperature.
type Capabilities struct {
	Tools       bool
	Vision      bool
	Temperature bool
}

// capabilityTable maps model identifiers to their capabilities. Longest
// matching prefix wins, so "gpt-4o-mini" can differ from "gpt-4o" if it
// ever needs to. Unknown models fall back to conservativeDefault.
var capabilityTable = map[string]Capabilities{
	"gpt-4.1":     {Tools: true, Vision: true, Temperature: true},
	"gpt-4o":      {Tools: true, Vision: true, Temperature: true},
	"gpt-4":       {Tools: true, Vision: false, Temperature: true},
	"gpt-3.5":     {Tools: true, Vision: false, Temperature: true},
	"o1":          {Tools: true, Vision: true, Temperature: false},
	"o3":          {Tools: true, Vision: true, Temperature: false},
	"o4-mini":     {Tools: true, Vision: true, Temperature: false},
	"gpt-5":       {Tools: true, Vision: true, Temperature: false},
	"gpt-oss":     {Tools: true, Vision: false, Temperature: true},
	"claude":      {Tools: true, Vision: true, Temperature: true},
	"gemini":      {Tools: true, Vision: true, Temperature: true},
	"gemma":       {Tools: false, Vision: false, Temperature: true},
	"deepseek-r1": {Tools: false, Vision: false, Temperature: true},
	"qwen":        {Tools: true, Vision: false, Temperature: true},
	"mistral":     {Tools: true, Vision: false, Temperature: true},

	// Groq-hosted llama variants
	"meta-llama/llama-4-scout":    {Tools: false, Vision: true, Temperature: true},
	"meta-llama/llama-4-maverick": {Tools: false, Vision: true, Temperature: true},
	"llama-3.3":                   {Tools: true, Vision: false, Temperature: true},
	"llama-3.1":                   {Tools: true, Vision: false, Temperature: true},
	"llama3":                      {Tools: true, Vision: false, Temperature: true},
}

// conservativeDefault is used for models the table does not know about:
// plain text in, plain text out, but temperature is universally safe.
var conservativeDefault = Capabilities{Tools: false, Vision: false, Temperature: true}

// LookupCapabilities resolves the capabilities for a model identifier.
// A config override takes precedence over the built-in table, field by field.
func LookupCapabilities(modelID string, override *config.CapabilityOverride) Capabilities {
	caps := conservativeDefault

	bestLen := -1
	for prefix, c := range capabilityTable {
		if strings.HasPrefix(modelID, prefix) && len(prefix) > bestLen {
			caps = c
			bestLen = len(prefix)
		}
	}

	if override != nil {
		if override.Tools != nil {
			caps.Tools = *override.Tools
		}
		if override.Vision != nil {
			caps.Vision = *override.Vision
		}
		if override.Temperature != nil {
			caps.Temperature = *override.Temperature
		}
	}

	return caps
}
