package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// submitMsg is emitted when the user presses enter on a non-empty line.
type submitMsg struct {
	content string
}

// prompt is the single-line input field with recall of earlier entries.
type prompt struct {
	ta      textarea.Model
	entries []string
	recall  int
	draft   string
}

func newPrompt() prompt {
	ta := textarea.New()
	ta.Placeholder = "Message kompis..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()
	return prompt{ta: ta, recall: -1}
}

func (p *prompt) setWidth(w int) { p.ta.SetWidth(w) }

func (p prompt) update(msg tea.Msg) (prompt, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.ta, cmd = p.ta.Update(msg)
		return p, cmd
	}

	switch key.Type {
	case tea.KeyEnter:
		content := strings.TrimSpace(p.ta.Value())
		if content == "" {
			return p, nil
		}
		p.entries = append(p.entries, content)
		p.recall = -1
		p.draft = ""
		p.ta.Reset()
		return p, func() tea.Msg { return submitMsg{content: content} }

	case tea.KeyUp:
		if len(p.entries) == 0 {
			return p, nil
		}
		if p.recall == -1 {
			p.draft = p.ta.Value()
			p.recall = len(p.entries) - 1
		} else if p.recall > 0 {
			p.recall--
		}
		p.ta.SetValue(p.entries[p.recall])
		return p, nil

	case tea.KeyDown:
		if p.recall == -1 {
			return p, nil
		}
		if p.recall < len(p.entries)-1 {
			p.recall++
			p.ta.SetValue(p.entries[p.recall])
		} else {
			p.recall = -1
			p.ta.SetValue(p.draft)
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.ta, cmd = p.ta.Update(msg)
	return p, cmd
}

func (p prompt) view() string { return p.ta.View() }
