// Package search provides web search behind a single provider-agnostic
// interface.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/tool"

	"github.com/cloudwego/eino-ext/components/tool/bingsearch"
	duckduckgo "github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino-ext/components/tool/googlesearch"

	"github.com/mnording/kompis/internal/config"
)

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Response holds the normalized hits for a query. Answer is filled when
// the provider synthesizes one; most don't.
type Response struct {
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// Query is a single search request.
type Query struct {
	Text          string
	IncludeAnswer bool
}

// Searcher runs a web search and returns normalized results.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Response, error)
}

// New creates a Searcher for the configured provider.
// Supported: "duckduckgo" (default, no API key), "google", "bing".
func New(ctx context.Context, cfg config.WebSearchConfig) (Searcher, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "duckduckgo"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	var inner tool.InvokableTool
	var err error

	switch provider {
	case "duckduckgo":
		slog.Info("web_search: using DuckDuckGo provider")
		inner, err = duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
			ToolName:   "web_search",
			ToolDesc:   "Search the web using DuckDuckGo. Returns titles, URLs, and summaries.",
			MaxResults: maxResults,
			Timeout:    cfg.Timeout.Duration(),
		})
	case "google":
		if cfg.GoogleAPIKey == "" || cfg.GoogleCX == "" {
			return nil, fmt.Errorf("google provider requires google_api_key and google_cx")
		}
		slog.Info("web_search: using Google provider")
		inner, err = googlesearch.NewTool(ctx, &googlesearch.Config{
			APIKey:         cfg.GoogleAPIKey,
			SearchEngineID: cfg.GoogleCX,
			Num:            maxResults,
			ToolName:       "web_search",
			ToolDesc:       "Search the web using Google. Returns titles, URLs, and snippets.",
		})
	case "bing":
		if cfg.BingAPIKey == "" {
			return nil, fmt.Errorf("bing provider requires bing_api_key")
		}
		slog.Info("web_search: using Bing provider")
		inner, err = bingsearch.NewTool(ctx, &bingsearch.Config{
			APIKey:     cfg.BingAPIKey,
			MaxResults: maxResults,
			ToolName:   "web_search",
			ToolDesc:   "Search the web using Bing. Returns titles, URLs, and descriptions.",
			Timeout:    cfg.Timeout.Duration(),
		})
	default:
		return nil, fmt.Errorf("web_search: unknown provider %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("web_search: init %s: %w", provider, err)
	}

	return &toolSearcher{inner: inner, maxResults: maxResults}, nil
}

// toolSearcher adapts an eino-ext search tool to the Searcher interface.
type toolSearcher struct {
	inner      tool.InvokableTool
	maxResults int
}

func (s *toolSearcher) Search(ctx context.Context, q Query) (*Response, error) {
	params := map[string]any{"query": q.Text}
	if q.IncludeAnswer {
		// Providers that synthesize answers read this; the rest drop
		// unknown arguments during their own unmarshal.
		params["include_answer"] = true
	}
	args, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	raw, err := s.inner.InvokableRun(ctx, string(args))
	if err != nil {
		return nil, fmt.Errorf("web_search: %w", err)
	}

	resp := ParseResults(raw)
	if len(resp.Results) > s.maxResults {
		resp.Results = resp.Results[:s.maxResults]
	}
	return resp, nil
}

// ParseResults normalizes a provider's JSON output into a Response.
// The providers disagree on their output shape, so this walks the document
// looking for arrays of objects that carry a title and a URL. Non-JSON
// output degrades to a single snippet-only result.
func ParseResults(raw string) *Response {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return &Response{Results: []Result{{Snippet: raw}}}
	}

	resp := &Response{}
	if m, ok := doc.(map[string]any); ok {
		resp.Answer = firstString(m, "answer", "abstract")
	}
	collect(doc, resp)
	if len(resp.Results) == 0 && resp.Answer == "" && raw != "" {
		resp.Results = []Result{{Snippet: raw}}
	}
	return resp
}

func collect(node any, resp *Response) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if r, ok := asResult(m); ok {
					resp.Results = append(resp.Results, r)
					continue
				}
			}
			collect(item, resp)
		}
	case map[string]any:
		if r, ok := asResult(v); ok {
			resp.Results = append(resp.Results, r)
			return
		}
		for _, val := range v {
			collect(val, resp)
		}
	}
}

func asResult(m map[string]any) (Result, bool) {
	title := firstString(m, "title", "name")
	url := firstString(m, "url", "link", "href")
	if title == "" || url == "" {
		return Result{}, false
	}
	return Result{
		Title:   title,
		URL:     url,
		Snippet: firstString(m, "snippet", "description", "summary", "content"),
	}, true
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
