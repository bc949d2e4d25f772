// Package sessions holds the conversation data model and its persistence.
package sessions

import (
	"time"
)

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// Session holds metadata about a conversation session.
type Session struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Status       SessionStatus `json:"status"`
	Model        string        `json:"model,omitempty"`
	Language     string        `json:"language,omitempty"`
	TurnCount    int           `json:"turn_count"`
	DocumentMode bool          `json:"document_mode,omitempty"`
}

// ImageRef is an image attached to a turn. Data is raw bytes; encoding/json
// base64-encodes it on the wire and in the transcript file.
type ImageRef struct {
	MIME string `json:"mime"`
	Data []byte `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Turn is a single entry in a conversation, serializable to JSONL.
// Images are attachments still bound for the provider; once a turn has
// been processed they move to DisplayImages, which clients render but
// never resend. SystemGenerated marks turns the app inserted on the
// user's behalf (document upload notes); they go to the provider like
// any user turn but clients skip them when rendering history.
type Turn struct {
	Role            string     `json:"role"`
	Content         string     `json:"content"`
	Images          []ImageRef `json:"images,omitempty"`
	DisplayImages   []ImageRef `json:"display_images,omitempty"`
	SystemGenerated bool       `json:"system_generated,omitempty"`
	Ts              time.Time  `json:"ts"`
}

// UserTurn builds a user turn with optional image attachments.
func UserTurn(content string, images ...ImageRef) Turn {
	return Turn{Role: "user", Content: content, Images: images, Ts: time.Now()}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: "assistant", Content: content, Ts: time.Now()}
}

// NoticeTurn builds a turn inserted on the user's behalf, like the note
// that documents were uploaded.
func NoticeTurn(content string) Turn {
	return Turn{Role: "user", Content: content, SystemGenerated: true, Ts: time.Now()}
}

// GenerationSettings are the per-conversation knobs a user can change
// mid-session. Zero values mean "use the configured default".
type GenerationSettings struct {
	Model        string   `json:"model,omitempty"`
	Temperature  *float32 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	ImageModel   string   `json:"image_model,omitempty"`
	ImageSize    string   `json:"image_size,omitempty"`
	ImageQuality string   `json:"image_quality,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

// Store defines the persistence interface for sessions.
type Store interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	List() ([]*Session, error)
	UpdateMeta(s *Session) error
	Close(id string) error
	AppendTurn(sessionID string, turn Turn) error
	LoadTurns(sessionID string) ([]Turn, error)
	ReplaceTurns(sessionID string, turns []Turn) error
}
