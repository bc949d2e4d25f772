package tui

import "github.com/mnording/kompis/internal/sessions"

// Messages delivered into the bubbletea program, either projected from
// bus events or produced by commands the model itself started.

// StreamStartMsg opens a new streaming assistant block.
type StreamStartMsg struct{}

// StreamDeltaMsg appends a chunk to the active streaming block.
type StreamDeltaMsg struct {
	Content string
	Index   int
}

// StreamEndMsg completes the active streaming block.
type StreamEndMsg struct{}

// AssistantMessageMsg is a finalized assistant turn.
type AssistantMessageMsg struct {
	Content string
	Error   string
}

// ToolCallMsg tracks one tool invocation's lifecycle.
type ToolCallMsg struct {
	Status    string
	Name      string
	Arguments string
	Result    string
	Error     string
}

// DocumentModeMsg announces a document mode transition.
type DocumentModeMsg struct {
	Active    bool
	Documents []string
}

// turnDoneMsg reports that a RunTurn command finished.
type turnDoneMsg struct {
	turns []sessions.Turn
	err   error
}
