package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mnording/kompis/internal/events"
)

// Project converts a bus event into a typed tea.Msg. Events that have
// no rendering, and the user messages the model itself echoed, come
// back nil.
func Project(ev events.Event) tea.Msg {
	switch ev.Type {
	case events.EventAssistantStream:
		return projectStream(ev)
	case events.EventAssistantMessage:
		return AssistantMessageMsg{
			Content: str(ev.Payload, "content"),
			Error:   str(ev.Payload, "error"),
		}
	case events.EventToolCall:
		return ToolCallMsg{
			Status:    str(ev.Payload, "status"),
			Name:      str(ev.Payload, "name"),
			Arguments: str(ev.Payload, "arguments"),
			Result:    str(ev.Payload, "result"),
			Error:     str(ev.Payload, "error"),
		}
	case events.EventDocumentMode:
		active, _ := ev.Payload["active"].(bool)
		return DocumentModeMsg{Active: active, Documents: strs(ev.Payload, "documents")}
	default:
		return nil
	}
}

func projectStream(ev events.Event) tea.Msg {
	switch events.StreamPhase(str(ev.Payload, "phase")) {
	case events.StreamPhaseStart:
		return StreamStartMsg{}
	case events.StreamPhaseDelta:
		index, _ := ev.Payload["index"].(float64)
		return StreamDeltaMsg{Content: str(ev.Payload, "content"), Index: int(index)}
	case events.StreamPhaseEnd:
		return StreamEndMsg{}
	default:
		return nil
	}
}

// str reads a string field from the bus's generic payload map.
func str(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

func strs(payload map[string]any, key string) []string {
	raw, _ := payload[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
