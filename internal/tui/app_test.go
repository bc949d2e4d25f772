package tui

import (
	"testing"
)

func testModel() Model {
	return Model{hist: newHistory(80, 20), input: newPrompt()}
}

func drive(t *testing.T, m Model, msgs ...any) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestStreamingBuildsOneBlock(t *testing.T) {
	m := drive(t, testModel(),
		StreamStartMsg{},
		StreamDeltaMsg{Content: "Hej "},
		StreamDeltaMsg{Content: "hej!"},
		StreamEndMsg{},
	)

	if len(m.hist.blocks) != 1 {
		t.Fatalf("got %d blocks", len(m.hist.blocks))
	}
	tb := m.hist.blocks[0].(*textBlock)
	if tb.content() != "Hej hej!" || !tb.complete {
		t.Errorf("block: %q complete=%v", tb.content(), tb.complete)
	}
}

func TestAssistantMessageAfterStreamIsDeduplicated(t *testing.T) {
	m := drive(t, testModel(),
		StreamStartMsg{},
		StreamDeltaMsg{Content: "same text"},
		StreamEndMsg{},
		AssistantMessageMsg{Content: "same text"},
	)
	if len(m.hist.blocks) != 1 {
		t.Fatalf("streamed text rendered twice: %d blocks", len(m.hist.blocks))
	}

	// A different message, like an image announcement, still renders.
	m = drive(t, m, AssistantMessageMsg{Content: "I generated an image"})
	if len(m.hist.blocks) != 2 {
		t.Fatalf("got %d blocks", len(m.hist.blocks))
	}
}

func TestToolCallLifecycleUpdatesBlock(t *testing.T) {
	m := drive(t, testModel(),
		ToolCallMsg{Status: "started", Name: "generate_image"},
		ToolCallMsg{Status: "completed", Name: "generate_image", Result: "done"},
	)

	if len(m.hist.blocks) != 1 {
		t.Fatalf("got %d blocks", len(m.hist.blocks))
	}
	tb := m.hist.blocks[0].(*toolBlock)
	if tb.status != "completed" || tb.result != "done" {
		t.Errorf("tool block: %+v", tb)
	}
}

func TestDocumentModeTogglesStatus(t *testing.T) {
	m := drive(t, testModel(), DocumentModeMsg{Active: true, Documents: []string{"a.txt"}})
	if !m.docMode {
		t.Error("document mode should be on")
	}
	m = drive(t, m, DocumentModeMsg{Active: false})
	if m.docMode {
		t.Error("document mode should be off")
	}
}
