package chat

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/mnording/kompis/internal/events"
	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/models"
	"github.com/mnording/kompis/internal/sessions"
)

// ModelSource yields the chat model for a turn plus its capability set.
// The registry satisfies it in production; tests plug in fakes.
type ModelSource interface {
	Model(ctx context.Context) (model.ToolCallingChatModel, error)
	Capabilities() models.Capabilities
}

// RegistrySource adapts a provider registry entry to a ModelSource.
// An empty Name selects the configured default provider.
type RegistrySource struct {
	Registry *models.Registry
	Name     string
}

func (s RegistrySource) Model(ctx context.Context) (model.ToolCallingChatModel, error) {
	if s.Name != "" {
		return s.Registry.Get(ctx, s.Name)
	}
	return s.Registry.Default(ctx)
}

func (s RegistrySource) Capabilities() models.Capabilities {
	if s.Name != "" {
		return s.Registry.Capabilities(s.Name)
	}
	return s.Registry.DefaultCapabilities()
}

// Orchestrator runs conversation turns end to end: encode history,
// stream the provider, dispatch at most one tool call, and finalize the
// assistant turns. It is the only writer of the conversation and state;
// turns are strictly sequential.
type Orchestrator struct {
	source     ModelSource
	dispatcher *Dispatcher
	gate       *DocGate
	bus        *events.Bus
	store      sessions.Store
	loc        i18n.Locale

	sessionID string
	conv      *sessions.Conversation
	state     *sessions.State
}

// Options configures an Orchestrator beyond its required collaborators.
type Options struct {
	Store     sessions.Store
	SessionID string
	Settings  sessions.GenerationSettings
	Language  string
}

// NewOrchestrator assembles an orchestrator around a fresh conversation
// seeded with the locale's chat prompt.
func NewOrchestrator(source ModelSource, dispatcher *Dispatcher, gate *DocGate, bus *events.Bus, loc i18n.Locale, opts Options) *Orchestrator {
	st := &sessions.State{Language: loc.Tag, Settings: opts.Settings}
	if opts.Language != "" {
		st.Language = opts.Language
	}
	return &Orchestrator{
		source:     source,
		dispatcher: dispatcher,
		gate:       gate,
		bus:        bus,
		store:      opts.Store,
		loc:        loc,
		sessionID:  opts.SessionID,
		conv:       sessions.NewConversation(loc.ChatPrompt),
		state:      st,
	}
}

// Conversation exposes the turn history, for display and persistence.
func (o *Orchestrator) Conversation() *sessions.Conversation { return o.conv }

// State exposes the session flags.
func (o *Orchestrator) State() *sessions.State { return o.state }

// Settings returns the session's generation settings.
func (o *Orchestrator) Settings() sessions.GenerationSettings { return o.state.Settings }

// UpdateSettings applies fn to the session's generation settings.
// Changes take effect on the next turn.
func (o *Orchestrator) UpdateSettings(fn func(*sessions.GenerationSettings)) {
	fn(&o.state.Settings)
}

// Restore replaces the in-memory history, e.g. when resuming a stored
// session.
func (o *Orchestrator) Restore(turns []sessions.Turn) {
	o.conv.Turns = append(o.conv.Turns[:0], turns...)
}

// SetSource swaps the model provider. History is untouched; the next
// turn re-reads capabilities from the new source. Registry sources
// record their name in the session's settings.
func (o *Orchestrator) SetSource(source ModelSource) {
	o.source = source
	if rs, ok := source.(RegistrySource); ok {
		o.state.Settings.Model = rs.Name
	}
}

// SetLanguage switches the display locale mid-session. The system
// prompt follows the new locale; past turns are left as they were.
func (o *Orchestrator) SetLanguage(tag string) {
	o.loc = i18n.Lookup(tag)
	o.state.Language = o.loc.Tag
	o.conv.SystemPrompt = o.loc.ChatPrompt
	if o.dispatcher != nil {
		o.dispatcher.setLocale(o.loc)
	}
	if o.gate != nil {
		o.gate.setLocale(o.loc)
	}
}

// AttachDocuments queues files for document answering and switches the
// session into document mode. History records an upload note on the
// user's behalf plus the assistant's mode notice. Returns the notice.
func (o *Orchestrator) AttachDocuments(paths []string) string {
	o.state.EnterDocumentMode(paths)

	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	o.appendTurn(sessions.NoticeTurn(fmt.Sprintf("I've uploaded the following document(s): %s.", strings.Join(names, ", "))))
	o.appendTurn(sessions.AssistantTurn(o.loc.DocumentModeNotice))

	if o.bus != nil {
		events.PublishTyped(o.bus, events.SourceOrchestrator, o.sessionID, events.DocumentModePayload{
			Active:    true,
			Documents: paths,
		})
	}
	return o.loc.DocumentModeNotice
}

// Reset collapses the conversation to a single greeting turn and clears
// document mode, the index, and the image context.
func (o *Orchestrator) Reset() string {
	o.conv.Reset(o.loc.ChatPrompt, o.loc.Greeting)
	o.state.Reset()
	if o.gate != nil {
		o.gate.Clear()
	}
	if o.store != nil && o.sessionID != "" {
		if err := o.store.ReplaceTurns(o.sessionID, o.conv.Turns); err != nil {
			slog.Error("persist reset failed", "session", o.sessionID, "error", err)
		}
	}
	if o.bus != nil {
		o.bus.Publish(events.NewEventWithSession(events.EventSessionReset, events.SourceOrchestrator, nil, o.sessionID))
	}
	return o.loc.Greeting
}

// RunTurn processes one user message and returns the assistant turns it
// produced, in order. Provider failures surface as a single localized
// apology turn; RunTurn itself only errors on a cancelled context.
func (o *Orchestrator) RunTurn(ctx context.Context, text string, images ...sessions.ImageRef) ([]sessions.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.appendTurn(sessions.UserTurn(text, images...))
	if o.bus != nil {
		events.PublishTyped(o.bus, events.SourceOrchestrator, o.sessionID, events.UserMessagePayload{
			Content:    text,
			ImageCount: len(images),
		})
	}

	var produced []sessions.Turn
	if o.state.DocumentMode {
		answer := o.gate.Answer(ctx, o.state, text)
		produced = o.finalize(answer, nil)
	} else {
		produced = o.providerTurn(ctx)
	}

	o.conv.StripImages()
	if o.store != nil && o.sessionID != "" {
		if err := o.store.ReplaceTurns(o.sessionID, o.conv.Turns); err != nil {
			slog.Error("persist image strip failed", "session", o.sessionID, "error", err)
		}
	}
	return produced, nil
}

// providerTurn runs the streaming path: prepare, stream, and either
// dispatch the first tool invocation or finalize with the text.
func (o *Orchestrator) providerTurn(ctx context.Context) []sessions.Turn {
	caps := o.source.Capabilities()

	// A per-session system prompt override beats the locale's default.
	if sp := strings.TrimSpace(o.state.Settings.SystemPrompt); sp != "" {
		o.conv.SystemPrompt = sp
	}
	msgs := Prepare(o.conv, caps)

	m, err := o.source.Model(ctx)
	if err != nil {
		slog.Error("model unavailable", "error", err)
		return o.finalize(UserMessage(models.HandleError(err), o.loc), nil)
	}

	if caps.Tools {
		if tm, err := m.WithTools(ToolSpecs()); err == nil {
			m = tm
		} else {
			slog.Warn("tool binding failed, continuing without tools", "error", err)
		}
	}

	var opts []model.Option
	if caps.Temperature && o.state.Settings.Temperature != nil {
		opts = append(opts, model.WithTemperature(*o.state.Settings.Temperature))
	}
	if o.state.Settings.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(o.state.Settings.MaxTokens))
	}

	stream, err := m.Stream(ctx, msgs, opts...)
	if err != nil {
		slog.Error("provider stream failed to open", "error", err)
		return o.finalize(UserMessage(models.HandleError(err), o.loc), nil)
	}

	o.publishStream(events.StreamPhaseStart, "", 0)
	deltaIndex := 0
	result, err := Consume(stream, func(delta string) {
		deltaIndex++
		o.publishStream(events.StreamPhaseDelta, delta, deltaIndex)
	})
	o.publishStream(events.StreamPhaseEnd, "", deltaIndex)

	if err != nil {
		slog.Error("provider stream failed", "error", err)
		return o.finalize(UserMessage(models.HandleError(err), o.loc), nil)
	}

	if len(result.Invocations) > 0 {
		if n := len(result.Invocations); n > 1 {
			slog.Debug("discarding extra tool invocations", "count", n-1)
		}
		return o.dispatch(ctx, result.Invocations[0], result.FinalText)
	}

	text := result.FinalText
	if strings.TrimSpace(text) == "" {
		text = o.loc.FallbackMessage
	}
	return o.finalize(text, nil)
}

// dispatch executes the turn's first invocation and shapes the
// resulting assistant turns.
func (o *Orchestrator) dispatch(ctx context.Context, inv Invocation, streamedText string) []sessions.Turn {
	if o.bus != nil {
		events.PublishTyped(o.bus, events.SourceTool, o.sessionID, events.ToolCallPayload{
			Status:    events.ToolStatusStarted,
			Name:      inv.Name,
			Arguments: inv.RawArgs,
		})
	}

	tr := o.dispatcher.Dispatch(ctx, inv, o.state)

	if o.bus != nil {
		status := events.ToolStatusCompleted
		if tr.Failed {
			status = events.ToolStatusFailed
		}
		events.PublishTyped(o.bus, events.SourceTool, o.sessionID, events.ToolCallPayload{
			Status: status,
			Name:   inv.Name,
			Result: tr.Text,
		})
	}

	switch tr.Tool {
	case ToolGenerateImage:
		var produced []sessions.Turn
		imageTurn := sessions.AssistantTurn(tr.Text)
		if tr.Image != nil {
			imageTurn.Images = []sessions.ImageRef{*tr.Image}
		}
		produced = append(produced, o.finalize(imageTurn.Content, imageTurn.Images)...)
		if trimmed := strings.TrimSpace(streamedText); trimmed != "" {
			produced = append(produced, o.finalize(trimmed, nil)...)
		}
		return produced

	default: // web search and anything unknown: one combined text turn
		parts := make([]string, 0, 2)
		if trimmed := strings.TrimSpace(streamedText); trimmed != "" {
			parts = append(parts, trimmed)
		}
		if tr.Text != "" {
			parts = append(parts, tr.Text)
		}
		return o.finalize(strings.Join(parts, "\n\n"), nil)
	}
}

// finalize appends one assistant turn, persists it, and announces it.
func (o *Orchestrator) finalize(text string, images []sessions.ImageRef) []sessions.Turn {
	turn := sessions.AssistantTurn(text)
	turn.Images = images
	o.appendTurn(turn)

	if o.bus != nil {
		events.PublishTyped(o.bus, events.SourceOrchestrator, o.sessionID, events.AssistantMessagePayload{
			Content: text,
		})
	}
	return []sessions.Turn{turn}
}

func (o *Orchestrator) appendTurn(turn sessions.Turn) {
	o.conv.Append(turn)
	if o.store != nil && o.sessionID != "" {
		if err := o.store.AppendTurn(o.sessionID, turn); err != nil {
			slog.Error("persist turn failed", "session", o.sessionID, "error", err)
		}
	}
}

func (o *Orchestrator) publishStream(phase events.StreamPhase, content string, index int) {
	if o.bus == nil {
		return
	}
	events.PublishTyped(o.bus, events.SourceOrchestrator, o.sessionID, events.AssistantStreamPayload{
		Phase:   phase,
		Content: content,
		Index:   index,
	})
}
