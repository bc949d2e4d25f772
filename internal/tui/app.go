package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mnording/kompis/internal/chat"
	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/models"
	"github.com/mnording/kompis/internal/sessions"
)

// Options wires the chat model into the terminal program.
type Options struct {
	Context      context.Context
	Orchestrator *chat.Orchestrator
	Registry     *models.Registry
	SessionID    string
	Locale       i18n.Locale
}

// Model is the root bubbletea model: history pane, input line, status
// bar. Bus events arrive already projected to typed messages.
type Model struct {
	ctx       context.Context
	orch      *chat.Orchestrator
	registry  *models.Registry
	sessionID string
	loc       i18n.Locale

	width  int
	height int
	hist   history
	input  prompt
	spin   spinner.Model

	busy        bool
	docMode     bool
	streamBlock *textBlock
	streamed    string
	pending     []sessions.ImageRef
	queued      []string
}

// New builds the root model, seeding the history pane from the
// conversation so resumed sessions show their past turns.
func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:       opts.Context,
		orch:      opts.Orchestrator,
		registry:  opts.Registry,
		sessionID: opts.SessionID,
		loc:       opts.Locale,
		hist:      newHistory(80, 20),
		input:     newPrompt(),
		spin:      s,
	}

	turns := opts.Orchestrator.Conversation().Turns
	if len(turns) == 0 {
		m.pushAssistant(opts.Locale.Greeting)
	}
	for _, t := range turns {
		if t.SystemGenerated {
			continue
		}
		switch t.Role {
		case "user":
			m.pushStyled("You", userStyle, t.Content)
		default:
			m.pushAssistant(t.Content)
		}
		for _, img := range append(t.DisplayImages, t.Images...) {
			if img.URL != "" {
				m.pushSystem(img.URL)
			}
		}
	}
	m.docMode = opts.Orchestrator.State().DocumentMode
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, textarea.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		histHeight := m.height - 2
		if histHeight < 1 {
			histHeight = 1
		}
		m.hist.setSize(m.width, histHeight)
		m.input.setWidth(m.width)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyPgUp:
			m.hist.pageUp()
			return m, nil
		case tea.KeyPgDown:
			m.hist.pageDown()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.update(msg)
		return m, cmd

	case submitMsg:
		return m.handleSubmit(msg.content)

	case StreamStartMsg:
		b := newTextBlock("Kompis", assistantStyle)
		b.markdown = true
		m.streamBlock = b
		m.hist.push(b)
		return m, nil

	case StreamDeltaMsg:
		if m.streamBlock != nil {
			m.streamBlock.append(msg.Content)
			m.hist.refresh()
		}
		return m, nil

	case StreamEndMsg:
		if m.streamBlock != nil {
			m.streamBlock.finish()
			m.streamed = m.streamBlock.content()
			m.streamBlock = nil
			m.hist.refresh()
		}
		return m, nil

	case AssistantMessageMsg:
		return m.handleAssistant(msg)

	case ToolCallMsg:
		return m.handleToolCall(msg)

	case DocumentModeMsg:
		m.docMode = msg.Active
		return m, nil

	case turnDoneMsg:
		return m.handleTurnDone(msg)
	}

	var cmds []tea.Cmd
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(tick)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.hist, cmd = m.hist.update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmit(content string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(content, "/") {
		return m.handleSlash(content)
	}

	m.pushStyled("You", userStyle, content)
	if m.busy {
		m.queued = append(m.queued, content)
		return m, nil
	}
	cmd := m.send(content)
	return m, cmd
}

// send runs one turn in the background. The orchestrator is strictly
// sequential, so busy gates further sends until turnDoneMsg.
func (m *Model) send(content string) tea.Cmd {
	m.busy = true
	m.streamed = ""
	imgs := m.pending
	m.pending = nil

	ctx, orch := m.ctx, m.orch
	return func() tea.Msg {
		turns, err := orch.RunTurn(ctx, content, imgs...)
		return turnDoneMsg{turns: turns, err: err}
	}
}

func (m Model) handleAssistant(msg AssistantMessageMsg) (tea.Model, tea.Cmd) {
	if msg.Error != "" {
		m.pushStyled("Error", errorStyle, msg.Error)
		return m, nil
	}
	// The streamed block already shows this text.
	if m.streamed != "" && msg.Content == m.streamed {
		m.streamed = ""
		return m, nil
	}
	if msg.Content != "" {
		m.pushAssistant(msg.Content)
	}
	return m, nil
}

func (m Model) handleToolCall(msg ToolCallMsg) (tea.Model, tea.Cmd) {
	switch msg.Status {
	case "started":
		m.hist.push(&toolBlock{name: msg.Name, status: msg.Status})
	default:
		if tb := m.hist.lastTool(msg.Name); tb != nil {
			tb.update(msg.Status, msg.Result, msg.Error)
			m.hist.refresh()
		}
	}
	return m, nil
}

func (m Model) handleTurnDone(msg turnDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if m.streamBlock != nil {
		// Stream end never arrived; close the block anyway.
		m.streamBlock.finish()
		m.streamBlock = nil
		m.hist.refresh()
	}
	if msg.err != nil {
		m.pushStyled("Error", errorStyle, msg.err.Error())
	}
	for _, t := range msg.turns {
		for _, img := range t.Images {
			m.showImage(img)
		}
	}

	if len(m.queued) > 0 {
		next := m.queued[0]
		m.queued = m.queued[1:]
		cmd := m.send(next)
		return m, cmd
	}
	return m, nil
}

func (m *Model) showImage(img sessions.ImageRef) {
	if img.URL != "" {
		m.pushSystem(img.URL)
		return
	}
	if len(img.Data) == 0 {
		return
	}
	path, err := img.SaveTemp("kompis")
	if err != nil {
		m.pushStyled("Error", errorStyle, fmt.Sprintf("could not save image: %v", err))
		return
	}
	m.pushSystem("image saved to " + path)
}

func (m Model) handleSlash(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/reset":
		m.pending = nil
		m.queued = nil
		m.docMode = false
		greeting := m.orch.Reset()
		m.hist.clear()
		m.pushAssistant(greeting)

	case "/attach":
		if len(fields) < 2 {
			m.pushSystem("usage: /attach <file> [<file>...]")
			break
		}
		m.attach(fields[1:])

	case "/model":
		if len(fields) != 2 {
			m.pushSystem("usage: /model <name>; available: " + strings.Join(m.registry.Names(), ", "))
			break
		}
		name := fields[1]
		if !m.registry.Has(name) {
			m.pushSystem(fmt.Sprintf("unknown provider %s; available: %s", name, strings.Join(m.registry.Names(), ", ")))
			break
		}
		m.orch.SetSource(chat.RegistrySource{Registry: m.registry, Name: name})
		m.pushSystem("switched to " + name)

	case "/lang":
		if len(fields) != 2 {
			m.pushSystem("usage: /lang <tag>; available: " + strings.Join(i18n.Tags(), ", "))
			break
		}
		m.orch.SetLanguage(fields[1])
		m.loc = i18n.Lookup(fields[1])
		m.pushSystem("language: " + m.orch.State().Language)

	case "/image-model":
		if len(fields) < 2 {
			s := m.orch.Settings()
			m.pushSystem(fmt.Sprintf("image model: %q size: %q quality: %q (usage: /image-model <name> [size] [quality])",
				s.ImageModel, s.ImageSize, s.ImageQuality))
			break
		}
		m.orch.UpdateSettings(func(s *sessions.GenerationSettings) {
			s.ImageModel = fields[1]
			if len(fields) > 2 {
				s.ImageSize = fields[2]
			}
			if len(fields) > 3 {
				s.ImageQuality = fields[3]
			}
		})
		m.pushSystem("image settings updated")

	case "/system":
		text := strings.TrimSpace(strings.TrimPrefix(line, "/system"))
		m.orch.UpdateSettings(func(s *sessions.GenerationSettings) {
			s.SystemPrompt = text
		})
		if text == "" {
			m.pushSystem("system prompt override cleared")
		} else {
			m.pushSystem("system prompt overridden")
		}

	case "/help":
		m.pushSystem(strings.Join([]string{
			"/attach <file>...      documents switch to document answering, images go with the next message",
			"/model <name>          switch model provider",
			"/image-model <name>    set image model (optionally size and quality)",
			"/system [prompt]       override the system prompt, bare /system clears it",
			"/lang <tag>            switch display language (en, sv)",
			"/reset                 clear the conversation and document mode",
			"/quit                  leave the chat",
		}, "\n"))

	default:
		m.pushSystem("unknown command " + fields[0] + ", try /help")
	}
	return m, nil
}

// attach routes files: images ride along with the next message,
// anything else enters document mode.
func (m *Model) attach(paths []string) {
	var docs []string
	attached := 0
	for _, p := range paths {
		if !sessions.IsImagePath(p) {
			docs = append(docs, p)
			continue
		}
		ref, err := sessions.ReadImageFile(p)
		if err != nil {
			m.pushStyled("Error", errorStyle, err.Error())
			continue
		}
		m.pending = append(m.pending, ref)
		attached++
	}
	if attached > 0 {
		m.pushSystem(fmt.Sprintf("%d image(s) will be attached to your next message", attached))
	}
	if len(docs) > 0 {
		m.pushAssistant(m.orch.AttachDocuments(docs))
	}
}

func (m *Model) pushAssistant(content string) {
	b := newTextBlock("Kompis", assistantStyle)
	b.markdown = true
	b.append(content)
	b.finish()
	m.hist.push(b)
}

func (m *Model) pushStyled(label string, style lipgloss.Style, content string) {
	b := newTextBlock(label, style)
	b.append(content)
	b.finish()
	m.hist.push(b)
}

func (m *Model) pushSystem(content string) {
	m.pushStyled("System", mutedStyle, content)
}

func (m Model) View() string {
	return fmt.Sprintf("%s\n%s\n%s", m.hist.view(), m.input.view(), m.statusView())
}

func (m Model) statusView() string {
	modelName := m.orch.Settings().Model
	if modelName == "" {
		modelName = "default"
	}
	mode := "ready"
	switch {
	case m.busy:
		mode = m.spin.View() + "thinking"
	case m.docMode:
		mode = "documents"
	}
	status := fmt.Sprintf("%s | %s | %s | %s", shortID(m.sessionID), modelName, m.orch.State().Language, mode)
	if m.width > 0 {
		return statusBarStyle.Width(m.width).Render(status)
	}
	return statusBarStyle.Render(status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "ephemeral"
	}
	return id
}
