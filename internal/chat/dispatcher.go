package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/imagegen"
	"github.com/mnording/kompis/internal/search"
	"github.com/mnording/kompis/internal/sessions"
)

const maxCitations = 5

// ToolResult is the user-visible outcome of one tool invocation. Tool
// failures are folded into Text, never returned as errors: the user
// gets an apology, the turn completes.
type ToolResult struct {
	Tool            string
	Text            string
	Image           *sessions.ImageRef
	EffectivePrompt string
	Failed          bool
}

// Dispatcher executes assembled tool invocations against the image and
// search services.
type Dispatcher struct {
	images   imagegen.Generator
	searcher search.Searcher
	loc      i18n.Locale
}

// NewDispatcher wires a dispatcher. Either service may be nil, in which
// case its tool reports a failure instead of executing.
func NewDispatcher(images imagegen.Generator, searcher search.Searcher, loc i18n.Locale) *Dispatcher {
	return &Dispatcher{images: images, searcher: searcher, loc: loc}
}

func (d *Dispatcher) setLocale(loc i18n.Locale) { d.loc = loc }

// Dispatch runs one invocation. The orchestrator only ever sends the
// first invocation of a turn here.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation, st *sessions.State) *ToolResult {
	switch inv.Name {
	case ToolGenerateImage:
		return d.generateImage(ctx, inv, st)
	case ToolWebSearch:
		return d.webSearch(ctx, inv)
	default:
		slog.Warn("unknown tool invoked", "tool", inv.Name)
		return &ToolResult{Tool: inv.Name, Text: d.loc.FallbackMessage, Failed: true}
	}
}

func (d *Dispatcher) generateImage(ctx context.Context, inv Invocation, st *sessions.State) *ToolResult {
	res := &ToolResult{Tool: ToolGenerateImage}

	if inv.Err != nil {
		slog.Error("image tool arguments unusable", "error", inv.Err)
		res.Text = d.loc.ImageGenerationError
		res.Failed = true
		return res
	}

	prompt, _ := inv.Args["prompt"].(string)
	if strings.TrimSpace(prompt) == "" {
		res.Text = d.loc.ImageGenerationError
		res.Failed = true
		return res
	}

	effective := prompt
	if isMod, _ := inv.Args["is_modification"].(bool); isMod && st.LastImagePrompt != "" {
		effective = imagegen.ModifyPrompt(st.LastImagePrompt, prompt)
	}

	// Invocation arguments win over the session's settings; the
	// generator falls back to its configured defaults for the rest.
	size, _ := inv.Args["size"].(string)
	if size == "" {
		size = st.Settings.ImageSize
	}
	quality, _ := inv.Args["quality"].(string)
	if quality == "" {
		quality = st.Settings.ImageQuality
	}

	if d.images == nil {
		res.Text = d.loc.ImageGenerationError
		res.Failed = true
		return res
	}

	img, err := d.images.Generate(ctx, imagegen.Request{
		Prompt:  effective,
		Model:   st.Settings.ImageModel,
		Size:    size,
		Quality: quality,
	})
	if err != nil {
		slog.Error("image generation failed", "error", err)
		res.Text = d.loc.ImageGenerationError
		res.Failed = true
		return res
	}

	st.LastImagePrompt = effective
	res.EffectivePrompt = effective
	res.Text = fmt.Sprintf(d.loc.ImageGeneratedNotice, effective)
	res.Image = toImageRef(img)
	return res
}

func toImageRef(img *imagegen.Image) *sessions.ImageRef {
	ref := &sessions.ImageRef{MIME: img.MIME, URL: img.URL}
	if img.B64 != "" {
		if data, err := base64.StdEncoding.DecodeString(img.B64); err == nil {
			ref.Data = data
		}
	}
	return ref
}

func (d *Dispatcher) webSearch(ctx context.Context, inv Invocation) *ToolResult {
	res := &ToolResult{Tool: ToolWebSearch}

	if inv.Err != nil {
		slog.Error("search tool arguments unusable", "error", inv.Err)
		res.Text = fmt.Sprintf(d.loc.SearchApology, inv.Err)
		res.Failed = true
		return res
	}

	query, _ := inv.Args["query"].(string)
	if strings.TrimSpace(query) == "" {
		res.Text = fmt.Sprintf(d.loc.SearchApology, "empty query")
		res.Failed = true
		return res
	}

	if d.searcher == nil {
		res.Text = fmt.Sprintf(d.loc.SearchApology, "search is not configured")
		res.Failed = true
		return res
	}

	includeAnswer, _ := inv.Args["include_answer"].(string)
	q := search.Query{
		Text:          query + d.loc.SearchLanguageHint(),
		IncludeAnswer: includeAnswer != "",
	}

	resp, err := d.searcher.Search(ctx, q)
	if err != nil {
		slog.Error("web search failed", "query", query, "error", err)
		res.Text = fmt.Sprintf(d.loc.SearchApology, err)
		res.Failed = true
		return res
	}

	res.Text = FormatSearchResults(d.loc, query, resp)
	return res
}

// FormatSearchResults renders a search response as the markdown block
// appended to the assistant's reply: results header, optional answer
// paragraph, and up to five enumerated citations.
func FormatSearchResults(loc i18n.Locale, query string, resp *search.Response) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, loc.SearchResultsLabel, query)
	sb.WriteString("\n")

	if resp.Answer != "" {
		sb.WriteString("\n")
		sb.WriteString(resp.Answer)
		sb.WriteString("\n")
	}

	cited := 0
	for _, r := range resp.Results {
		if r.Title == "" || r.URL == "" {
			continue
		}
		if cited == 0 {
			sb.WriteString("\n")
			sb.WriteString(loc.SourcesLabel)
			sb.WriteString("\n")
		}
		cited++
		fmt.Fprintf(&sb, "%d. [%s](%s)\n", cited, r.Title, r.URL)
		if cited == maxCitations {
			break
		}
	}

	// Providers that only return loose text still contribute something.
	if cited == 0 && resp.Answer == "" {
		for _, r := range resp.Results {
			if r.Snippet != "" {
				sb.WriteString("\n")
				sb.WriteString(r.Snippet)
				sb.WriteString("\n")
				break
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
