package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// block is one renderable unit of conversation history.
type block interface {
	render(width int) string
}

// textBlock is a labeled message, streamed or complete. Completed
// assistant text goes through the markdown renderer once and is cached.
type textBlock struct {
	label    string
	style    lipgloss.Style
	text     strings.Builder
	complete bool
	markdown bool
	cached   string
}

func newTextBlock(label string, style lipgloss.Style) *textBlock {
	return &textBlock{label: label, style: style}
}

func (b *textBlock) append(s string) {
	b.text.WriteString(s)
	b.cached = ""
}

func (b *textBlock) finish() {
	b.complete = true
	b.cached = ""
}

func (b *textBlock) content() string { return b.text.String() }

func (b *textBlock) render(width int) string {
	if b.cached != "" {
		return b.cached
	}
	label := b.style.Render(b.label)
	body := b.text.String()
	if b.complete && b.markdown {
		body = renderMarkdown(body, width)
	}
	out := label + " " + body
	if b.complete {
		b.cached = out
	}
	return out
}

// renderMarkdown pretty-prints completed assistant text. Any renderer
// trouble falls back to the raw text.
func renderMarkdown(text string, width int) string {
	w := width - 8
	if w < 20 {
		w = 20
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(w))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// toolBlock shows a tool invocation's progress inside a bordered box.
type toolBlock struct {
	name   string
	status string
	result string
	errMsg string
}

func (b *toolBlock) update(status, result, errMsg string) {
	b.status = status
	b.result = result
	b.errMsg = errMsg
}

func (b *toolBlock) render(width int) string {
	line := fmt.Sprintf("%s %s", b.name, b.status)
	if b.errMsg != "" {
		line += ": " + b.errMsg
	}
	w := width - 4
	if w > 10 {
		return toolBorderStyle.Width(w).Render(mutedStyle.Render(line))
	}
	return toolBorderStyle.Render(mutedStyle.Render(line))
}
