package events

import "encoding/json"

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

type UserMessagePayload struct {
	Content    string `json:"content"`
	ImageCount int    `json:"image_count,omitempty"`
}

func (UserMessagePayload) EventType() EventType { return EventUserMessage }

// StreamPhase marks where in a streamed response a delta sits.
type StreamPhase string

const (
	StreamPhaseStart StreamPhase = "start"
	StreamPhaseDelta StreamPhase = "delta"
	StreamPhaseEnd   StreamPhase = "end"
)

type AssistantStreamPayload struct {
	Phase   StreamPhase `json:"phase"`
	Content string      `json:"content"`
	Index   int         `json:"index"`
}

func (AssistantStreamPayload) EventType() EventType { return EventAssistantStream }

type AssistantMessagePayload struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

func (AssistantMessagePayload) EventType() EventType { return EventAssistantMessage }

// ToolStatus tracks a tool invocation's progress.
type ToolStatus string

const (
	ToolStatusStarted   ToolStatus = "started"
	ToolStatusCompleted ToolStatus = "completed"
	ToolStatusFailed    ToolStatus = "failed"
)

type ToolCallPayload struct {
	Status    ToolStatus `json:"status"`
	Name      string     `json:"name"`
	Arguments string     `json:"arguments,omitempty"`
	Result    string     `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (ToolCallPayload) EventType() EventType { return EventToolCall }

type SessionPayload struct {
	SessionID string `json:"session_id"`
}

func (SessionPayload) EventType() EventType { return EventSessionCreated }

type DocumentModePayload struct {
	Active    bool     `json:"active"`
	Documents []string `json:"documents,omitempty"`
}

func (DocumentModePayload) EventType() EventType { return EventDocumentMode }

// PublishTyped publishes a typed payload, flattening it to the generic
// map form the bus carries.
func PublishTyped(b *Bus, source EventSource, sessionID string, p EventPayload) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}
	b.Publish(NewEventWithSession(p.EventType(), source, m, sessionID))
}
