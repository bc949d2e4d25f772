package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/imagegen"
	"github.com/mnording/kompis/internal/search"
	"github.com/mnording/kompis/internal/sessions"
)

type fakeGenerator struct {
	img     *imagegen.Image
	err     error
	lastReq imagegen.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req imagegen.Request) (*imagegen.Image, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type fakeSearcher struct {
	resp      *search.Response
	err       error
	lastQuery search.Query
}

func (f *fakeSearcher) Search(_ context.Context, q search.Query) (*search.Response, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func english() i18n.Locale { return i18n.Lookup("en") }

func TestDispatchGenerateImage(t *testing.T) {
	gen := &fakeGenerator{img: &imagegen.Image{URL: "https://img.example/1.png", MIME: "image/png"}}
	d := NewDispatcher(gen, nil, english())
	st := &sessions.State{}

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolGenerateImage,
		Args: map[string]any{"prompt": "a red fox", "size": "512x512"},
	}, st)

	if tr.Failed {
		t.Fatalf("unexpected failure: %q", tr.Text)
	}
	if tr.Image == nil || tr.Image.URL != "https://img.example/1.png" {
		t.Errorf("image: %+v", tr.Image)
	}
	if gen.lastReq.Prompt != "a red fox" || gen.lastReq.Size != "512x512" {
		t.Errorf("request: %+v", gen.lastReq)
	}
	if st.LastImagePrompt != "a red fox" {
		t.Errorf("prompt not stored: %q", st.LastImagePrompt)
	}
}

func TestDispatchGenerateImageSessionSettings(t *testing.T) {
	gen := &fakeGenerator{img: &imagegen.Image{URL: "u", MIME: "image/png"}}
	d := NewDispatcher(gen, nil, english())
	st := &sessions.State{Settings: sessions.GenerationSettings{
		ImageModel:   "gpt-image-1",
		ImageSize:    "1536x1024",
		ImageQuality: "high",
	}}

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolGenerateImage,
		Args: map[string]any{"prompt": "a red fox"},
	}, st)

	if tr.Failed {
		t.Fatalf("unexpected failure: %q", tr.Text)
	}
	if gen.lastReq.Model != "gpt-image-1" || gen.lastReq.Size != "1536x1024" || gen.lastReq.Quality != "high" {
		t.Errorf("session settings not forwarded: %+v", gen.lastReq)
	}

	// An explicit size in the invocation still wins.
	d.Dispatch(context.Background(), Invocation{
		Name: ToolGenerateImage,
		Args: map[string]any{"prompt": "a red fox", "size": "512x512"},
	}, st)
	if gen.lastReq.Size != "512x512" {
		t.Errorf("invocation size should win: %+v", gen.lastReq)
	}
}

func TestDispatchGenerateImageModification(t *testing.T) {
	gen := &fakeGenerator{img: &imagegen.Image{URL: "u", MIME: "image/png"}}
	d := NewDispatcher(gen, nil, english())
	st := &sessions.State{LastImagePrompt: "a red fox"}

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolGenerateImage,
		Args: map[string]any{"prompt": "make it blue", "is_modification": true},
	}, st)

	want := "Based on this previous idea: a red fox, now make it blue"
	if gen.lastReq.Prompt != want {
		t.Errorf("effective prompt: %q", gen.lastReq.Prompt)
	}
	if st.LastImagePrompt != want {
		t.Errorf("stored prompt: %q", st.LastImagePrompt)
	}
	if tr.EffectivePrompt != want {
		t.Errorf("result prompt: %q", tr.EffectivePrompt)
	}
}

func TestDispatchGenerateImageFailureIsLocalized(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	d := NewDispatcher(gen, nil, english())
	st := &sessions.State{LastImagePrompt: "previous"}

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolGenerateImage,
		Args: map[string]any{"prompt": "a fox"},
	}, st)

	if !tr.Failed {
		t.Fatal("expected failure")
	}
	if tr.Text != english().ImageGenerationError {
		t.Errorf("text: %q", tr.Text)
	}
	if st.LastImagePrompt != "previous" {
		t.Errorf("failed generation must not overwrite the stored prompt: %q", st.LastImagePrompt)
	}
}

func TestDispatchGenerateImageParseError(t *testing.T) {
	d := NewDispatcher(&fakeGenerator{}, nil, english())

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolGenerateImage,
		Err:  errors.New("unexpected end of JSON input"),
	}, &sessions.State{})

	if !tr.Failed || tr.Text != english().ImageGenerationError {
		t.Errorf("result: %+v", tr)
	}
}

func TestDispatchWebSearch(t *testing.T) {
	s := &fakeSearcher{resp: &search.Response{
		Results: []search.Result{
			{Title: "One", URL: "https://one.example"},
			{Title: "Two", URL: "https://two.example"},
		},
	}}
	d := NewDispatcher(nil, s, english())

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolWebSearch,
		Args: map[string]any{"query": "go 1.25 release"},
	}, &sessions.State{})

	if tr.Failed {
		t.Fatalf("unexpected failure: %q", tr.Text)
	}
	if !strings.Contains(tr.Text, "**Search Results:** 'go 1.25 release'") {
		t.Errorf("missing header: %q", tr.Text)
	}
	if !strings.Contains(tr.Text, "1. [One](https://one.example)") {
		t.Errorf("missing citation: %q", tr.Text)
	}
}

func TestDispatchWebSearchSwedishHint(t *testing.T) {
	s := &fakeSearcher{resp: &search.Response{}}
	d := NewDispatcher(nil, s, i18n.Lookup("sv"))

	d.Dispatch(context.Background(), Invocation{
		Name: ToolWebSearch,
		Args: map[string]any{"query": "vädret i Malmö"},
	}, &sessions.State{})

	if s.lastQuery.Text != "vädret i Malmö (answer in Swedish)" {
		t.Errorf("query: %q", s.lastQuery.Text)
	}
}

func TestDispatchWebSearchFailureApology(t *testing.T) {
	s := &fakeSearcher{err: errors.New("dns failure")}
	d := NewDispatcher(nil, s, english())

	tr := d.Dispatch(context.Background(), Invocation{
		Name: ToolWebSearch,
		Args: map[string]any{"query": "anything"},
	}, &sessions.State{})

	if !tr.Failed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(tr.Text, "dns failure") {
		t.Errorf("apology should embed the detail: %q", tr.Text)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(nil, nil, english())
	tr := d.Dispatch(context.Background(), Invocation{Name: "rm_rf"}, &sessions.State{})
	if !tr.Failed || tr.Text != english().FallbackMessage {
		t.Errorf("result: %+v", tr)
	}
}

func TestFormatSearchResultsCitationCap(t *testing.T) {
	resp := &search.Response{}
	for i := 0; i < 8; i++ {
		resp.Results = append(resp.Results, search.Result{
			Title: fmt.Sprintf("R%d", i),
			URL:   fmt.Sprintf("https://r%d.example", i),
		})
	}

	out := FormatSearchResults(english(), "q", resp)
	if strings.Contains(out, "6. [") {
		t.Errorf("more than 5 citations: %q", out)
	}
	if !strings.Contains(out, "5. [R4]") {
		t.Errorf("missing 5th citation: %q", out)
	}
}

func TestFormatSearchResultsAnswer(t *testing.T) {
	out := FormatSearchResults(english(), "meaning of life", &search.Response{
		Answer:  "Forty-two.",
		Results: []search.Result{{Title: "Ref", URL: "https://ref.example"}},
	})
	if !strings.Contains(out, "Forty-two.") {
		t.Errorf("answer missing: %q", out)
	}
	if !strings.Contains(out, "**Sources:**") {
		t.Errorf("sources label missing: %q", out)
	}
}
