package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mnording/kompis/internal/config"
	"github.com/mnording/kompis/internal/docqa"
	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/sessions"
)

// DocGate answers questions against the session's uploaded documents.
// While document mode is active it replaces the normal provider turn
// entirely: retrieval plus one synthesis call, no tools.
type DocGate struct {
	loc      i18n.Locale
	embedder embedding.Embedder
	model    model.ToolCallingChatModel
	topK     int
	chunk    int
	overlap  int
	index    *docqa.Index
}

// NewDocGate creates a gate. The model is used for answer synthesis
// over retrieved chunks.
func NewDocGate(cfg config.DocQAConfig, embedder embedding.Embedder, m model.ToolCallingChatModel, loc i18n.Locale) *DocGate {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 10
	}
	return &DocGate{
		loc:      loc,
		embedder: embedder,
		model:    m,
		topK:     topK,
		chunk:    cfg.ChunkSize,
		overlap:  cfg.Overlap,
	}
}

func (g *DocGate) setLocale(loc i18n.Locale) { g.loc = loc }

// Answer resolves one document-mode question. All failures come back as
// localized text; the caller appends it as the assistant turn either way.
func (g *DocGate) Answer(ctx context.Context, st *sessions.State, question string) string {
	if g.embedder == nil || g.model == nil {
		// Embeddings or the synthesis model never initialized. The
		// chromem workers would panic on a nil embedder, so refuse
		// here the way the dispatcher refuses a nil service.
		slog.Error("document answering unavailable", "embedder", g.embedder != nil, "model", g.model != nil)
		return g.loc.DocumentError
	}
	if g.index == nil && len(st.PendingDocuments) == 0 {
		return g.loc.NoDocuments
	}

	if len(st.PendingDocuments) > 0 {
		if msg := g.ingest(ctx, st); msg != "" {
			return msg
		}
	}

	hits, err := g.index.Query(ctx, question, g.topK)
	if err != nil {
		if errors.Is(err, docqa.ErrNoDocuments) {
			return g.loc.NoDocuments
		}
		slog.Error("document query failed", "error", err)
		return UserMessage(err, g.loc)
	}

	answer, err := g.synthesize(ctx, question, hits)
	if err != nil {
		slog.Error("document answer synthesis failed", "error", err)
		return UserMessage(err, g.loc)
	}
	return answer
}

// ingest builds the index lazily from the queued documents and clears
// the queue. Returns a localized message on failure, "" on success.
func (g *DocGate) ingest(ctx context.Context, st *sessions.State) string {
	docs, err := docqa.LoadDocuments(st.PendingDocuments)
	if err != nil {
		slog.Error("document load failed", "error", err)
		return g.loc.DocumentError
	}

	if g.index == nil {
		ix, err := docqa.NewIndex(ctx, g.embedder, g.chunk, g.overlap)
		if err != nil {
			slog.Error("index creation failed", "error", err)
			return g.loc.DocumentError
		}
		g.index = ix
	}

	if err := g.index.Add(ctx, docs); err != nil {
		slog.Error("document indexing failed", "error", err)
		return g.loc.DocumentError
	}

	st.PendingDocuments = nil
	return ""
}

// synthesize asks the model to answer from the retrieved chunks only.
func (g *DocGate) synthesize(ctx context.Context, question string, hits []docqa.Hit) (string, error) {
	var sb strings.Builder
	sb.WriteString(g.loc.DocPrompt)
	sb.WriteString("\n\nContext:\n")
	for i, hit := range hits {
		fmt.Fprintf(&sb, "[%d] (%s)\n%s\n\n", i+1, hit.Path, hit.Content)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(sb.String()),
		schema.UserMessage(question),
	}

	out, err := g.model.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

// Clear drops the index. Called on session reset.
func (g *DocGate) Clear() {
	g.index = nil
}

// Indexed reports whether any documents have been embedded.
func (g *DocGate) Indexed() bool {
	return g.index != nil && g.index.ChunkCount() > 0
}
