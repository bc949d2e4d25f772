package sessions

// Conversation is the append-only turn history plus the system prompt.
// It is not safe for concurrent use; the orchestrator owns it for the
// duration of a turn.
type Conversation struct {
	SystemPrompt string
	Turns        []Turn
}

// NewConversation creates a conversation seeded with a system prompt.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{SystemPrompt: systemPrompt}
}

// Append adds a turn to the history.
func (c *Conversation) Append(t Turn) {
	c.Turns = append(c.Turns, t)
}

// Reset clears all turns, restores the system prompt, and seeds the
// history with a single assistant greeting.
func (c *Conversation) Reset(systemPrompt, greeting string) {
	c.SystemPrompt = systemPrompt
	c.Turns = c.Turns[:0]
	c.Append(AssistantTurn(greeting))
}

// StripImages moves image payloads out of the request path: Images is
// what goes back to the provider, DisplayImages is what a client still
// renders. Called once a turn completes so stale attachments never ride
// along on later requests while history keeps its pictures.
func (c *Conversation) StripImages() {
	for i := range c.Turns {
		if len(c.Turns[i].Images) == 0 {
			continue
		}
		c.Turns[i].DisplayImages = append(c.Turns[i].DisplayImages, c.Turns[i].Images...)
		c.Turns[i].Images = nil
	}
}

// Last returns the most recent turn, or nil if the history is empty.
func (c *Conversation) Last() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return &c.Turns[len(c.Turns)-1]
}

// State carries the per-session flags that outlive individual turns.
type State struct {
	DocumentMode     bool
	PendingDocuments []string
	LastImagePrompt  string
	Language         string
	Settings         GenerationSettings
}

// EnterDocumentMode flags the session for document answering and queues
// the given files for indexing on the next question.
func (s *State) EnterDocumentMode(paths []string) {
	s.DocumentMode = true
	s.PendingDocuments = append(s.PendingDocuments, paths...)
}

// ClearDocuments leaves document mode and forgets any queued files.
func (s *State) ClearDocuments() {
	s.DocumentMode = false
	s.PendingDocuments = nil
}

// Reset restores the state to its defaults, keeping the language.
func (s *State) Reset() {
	lang := s.Language
	*s = State{Language: lang}
}
