package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var wg sync.WaitGroup
	wg.Add(1)

	var got Event
	unsub := bus.Subscribe(func(e Event) {
		got = e
		wg.Done()
	}, EventUserMessage)
	defer unsub()

	bus.Publish(NewEvent(EventUserMessage, SourceCLI, map[string]any{"content": "hi"}))

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	if got.Type != EventUserMessage {
		t.Errorf("got type %s", got.Type)
	}
	if got.Payload["content"] != "hi" {
		t.Errorf("got payload %v", got.Payload)
	}
}

func TestBusTypeFilter(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	ch, cancel := bus.SubscribeChan(8, EventToolCall)
	defer cancel()

	bus.Publish(NewEvent(EventUserMessage, SourceCLI, nil))
	bus.Publish(NewEvent(EventToolCall, SourceOrchestrator, map[string]any{"name": "web_search"}))

	select {
	case e := <-ch:
		if e.Type != EventToolCall {
			t.Errorf("filter leaked event type %s", e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tool event")
	}
}

func TestBusHistory(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	for i := 0; i < 6; i++ {
		bus.Publish(NewEvent(EventAssistantMessage, SourceOrchestrator, map[string]any{"i": i}))
	}

	// Dispatch is async; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(bus.History(10)) == 4 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	history := bus.History(10)
	if len(history) != 4 {
		t.Fatalf("ring buffer should cap at 4, got %d", len(history))
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(4)
	bus.Close()

	// Must not panic.
	bus.Publish(NewEvent(EventUserMessage, SourceCLI, nil))
}

func TestPublishTyped(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	ch, cancel := bus.SubscribeChan(8, EventAssistantStream)
	defer cancel()

	PublishTyped(bus, SourceOrchestrator, "sess_1", AssistantStreamPayload{
		Phase:   StreamPhaseDelta,
		Content: "hel",
		Index:   2,
	})

	select {
	case e := <-ch:
		if e.SessionID != "sess_1" {
			t.Errorf("session id: %s", e.SessionID)
		}
		if e.Payload["phase"] != string(StreamPhaseDelta) {
			t.Errorf("phase: %v", e.Payload["phase"])
		}
		if e.Payload["content"] != "hel" {
			t.Errorf("content: %v", e.Payload["content"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for typed event")
	}
}
