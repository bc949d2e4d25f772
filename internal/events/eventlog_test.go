package events

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForEvents(t *testing.T, dir, sessionID string, want int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		evs, err := ReadLog(dir, sessionID)
		if err != nil {
			t.Fatalf("ReadLog: %v", err)
		}
		if len(evs) >= want {
			return evs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events in %s", want, sessionID)
	return nil
}

func TestEventLoggerWriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	bus := NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	bus.Publish(NewEventWithSession(EventUserMessage, SourceCLI, map[string]any{"content": "hi"}, "sess_1"))
	bus.Publish(NewEventWithSession(EventAssistantMessage, SourceOrchestrator, map[string]any{"content": "hello"}, "sess_1"))

	evs := waitForEvents(t, dir, "sess_1", 2)
	if evs[0].Type != EventUserMessage || evs[1].Type != EventAssistantMessage {
		t.Fatalf("unexpected event order: %s, %s", evs[0].Type, evs[1].Type)
	}
	if got, _ := evs[1].Payload["content"].(string); got != "hello" {
		t.Fatalf("payload content = %q", got)
	}
}

func TestEventLoggerSkipsStreamDeltas(t *testing.T) {
	dir := t.TempDir()
	bus := NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	bus.Publish(NewEventWithSession(EventAssistantStream, SourceOrchestrator, map[string]any{"phase": "delta"}, "sess_2"))
	bus.Publish(NewEventWithSession(EventAssistantMessage, SourceOrchestrator, map[string]any{"content": "done"}, "sess_2"))

	evs := waitForEvents(t, dir, "sess_2", 1)
	for _, e := range evs {
		if e.Type == EventAssistantStream {
			t.Fatal("stream delta should not be persisted")
		}
	}
}

func TestEventLoggerGlobalFile(t *testing.T) {
	dir := t.TempDir()
	bus := NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	bus.Publish(NewEvent(EventSessionCreated, SourceCLI, nil))

	waitForEvents(t, dir, "", 1)
	if _, err := os.Stat(filepath.Join(dir, "_global.jsonl")); err != nil {
		t.Fatalf("expected global log file: %v", err)
	}
}

func TestReadLogMissingFile(t *testing.T) {
	evs, err := ReadLog(t.TempDir(), "nope")
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("expected no events, got %d", len(evs))
	}
}
