package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// history is the scrollable conversation pane. All built-in viewport
// keybindings are disabled so they never fight the input field; paging
// is driven explicitly from the root model.
type history struct {
	vp     viewport.Model
	blocks []block
	width  int
}

func newHistory(width, height int) history {
	vp := viewport.New(width, height)
	vp.SetContent("")
	vp.KeyMap = viewport.KeyMap{}
	vp.MouseWheelEnabled = false
	return history{vp: vp, width: width}
}

func (h *history) setSize(width, height int) {
	h.width = width
	h.vp.Width = width
	h.vp.Height = height
	h.refresh()
}

func (h *history) push(b block) {
	h.blocks = append(h.blocks, b)
	h.refresh()
}

// lastTool finds the most recent tool block with the given name, for
// lifecycle updates.
func (h *history) lastTool(name string) *toolBlock {
	for i := len(h.blocks) - 1; i >= 0; i-- {
		if tb, ok := h.blocks[i].(*toolBlock); ok && tb.name == name {
			return tb
		}
	}
	return nil
}

func (h *history) clear() {
	h.blocks = nil
	h.refresh()
}

func (h *history) pageUp()   { h.vp.PageUp() }
func (h *history) pageDown() { h.vp.PageDown() }

func (h *history) refresh() {
	var sb strings.Builder
	for i, b := range h.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.render(h.width))
	}
	h.vp.SetContent(sb.String())
	h.vp.GotoBottom()
}

func (h history) update(msg tea.Msg) (history, tea.Cmd) {
	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	return h, cmd
}

func (h history) view() string { return h.vp.View() }
