package chat

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"

	"github.com/mnording/kompis/internal/config"
	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/sessions"
)

// stubEmbedder maps each text deterministically to an 8-dim vector.
type stubEmbedder struct{}

func (stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, 8)
		for j, c := range text {
			vec[j%8] += float64(c)
		}
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] /= norm
			}
		}
		out[i] = vec
	}
	return out, nil
}

func newTestGate(t *testing.T, m *fakeModel) *DocGate {
	t.Helper()
	return NewDocGate(
		config.DocQAConfig{TopK: 10, ChunkSize: 1024, Overlap: 100},
		stubEmbedder{},
		m,
		i18n.Lookup("en"),
	)
}

func TestDocGateNoDocuments(t *testing.T) {
	g := newTestGate(t, &fakeModel{})
	st := &sessions.State{DocumentMode: true}

	got := g.Answer(context.Background(), st, "what does it say?")
	if got != i18n.Lookup("en").NoDocuments {
		t.Errorf("got %q", got)
	}
}

func TestDocGateIngestsAndAnswers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	os.WriteFile(path, []byte("The warehouse inventory was counted on March 3rd."), 0644)

	m := &fakeModel{genOut: &schema.Message{Role: schema.Assistant, Content: "It was counted on March 3rd."}}
	g := newTestGate(t, m)
	st := &sessions.State{DocumentMode: true, PendingDocuments: []string{path}}

	got := g.Answer(context.Background(), st, "when was the inventory counted?")
	if got != "It was counted on March 3rd." {
		t.Errorf("got %q", got)
	}
	if st.PendingDocuments != nil {
		t.Error("pending documents must be cleared after ingest")
	}
	if !st.DocumentMode {
		t.Error("document mode must stay on")
	}
	if !g.Indexed() {
		t.Error("index should hold chunks")
	}

	// The synthesis prompt must carry the retrieved context.
	sys := m.gotMsgs[0]
	if sys.Role != schema.System || !strings.Contains(sys.Content, "warehouse inventory") {
		t.Errorf("system prompt: %q", sys.Content)
	}
	if m.gotMsgs[1].Content != "when was the inventory counted?" {
		t.Errorf("question: %q", m.gotMsgs[1].Content)
	}
}

func TestDocGateLoadFailureIsLocalized(t *testing.T) {
	g := newTestGate(t, &fakeModel{})
	st := &sessions.State{DocumentMode: true, PendingDocuments: []string{"/nonexistent/e.txt"}}

	got := g.Answer(context.Background(), st, "anything")
	if got != i18n.Lookup("en").DocumentError {
		t.Errorf("expected the document error message, got %q", got)
	}
	// Queue is kept so a later attach can retry cleanly.
	if !st.DocumentMode {
		t.Error("document mode must survive a failed ingest")
	}
}

func TestDocGateMissingServicesRefusesSafely(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	os.WriteFile(path, []byte("quarterly figures"), 0644)

	loc := i18n.Lookup("en")
	cfg := config.DocQAConfig{TopK: 10, ChunkSize: 1024, Overlap: 100}
	st := &sessions.State{DocumentMode: true, PendingDocuments: []string{path}}

	// No embedder: indexing would otherwise dereference nil inside the
	// store's worker goroutines, where no caller can recover.
	g := NewDocGate(cfg, nil, &fakeModel{}, loc)
	if got := g.Answer(context.Background(), st, "q"); got != loc.DocumentError {
		t.Errorf("nil embedder: got %q", got)
	}

	// No synthesis model.
	g = NewDocGate(cfg, stubEmbedder{}, nil, loc)
	if got := g.Answer(context.Background(), st, "q"); got != loc.DocumentError {
		t.Errorf("nil model: got %q", got)
	}
}

func TestDocGateClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	os.WriteFile(path, []byte("some content here"), 0644)

	g := newTestGate(t, &fakeModel{})
	st := &sessions.State{DocumentMode: true, PendingDocuments: []string{path}}
	g.Answer(context.Background(), st, "q")

	g.Clear()
	if g.Indexed() {
		t.Error("index should be gone after Clear")
	}

	st2 := &sessions.State{DocumentMode: true}
	if got := g.Answer(context.Background(), st2, "q"); got != i18n.Lookup("en").NoDocuments {
		t.Errorf("after clear: %q", got)
	}
}
