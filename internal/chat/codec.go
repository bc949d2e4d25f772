// Package chat is the turn orchestration core: it encodes conversation
// history for providers, reduces their streams, dispatches tool calls,
// and gates document-mode answering.
package chat

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/mnording/kompis/internal/models"
	"github.com/mnording/kompis/internal/sessions"
)

// degradedImageMarker is appended to a user message when its image
// attachments had to be dropped for a text-only model.
const degradedImageMarker = " [image description not supported]"

// Prepare encodes the conversation into provider messages: one system
// message followed by the turns in order. Image attachments become
// MultiContent data-URI parts; for models without vision the whole
// encoding is then degraded to annotated text.
func Prepare(conv *sessions.Conversation, caps models.Capabilities) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(conv.Turns)+1)
	if conv.SystemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(conv.SystemPrompt))
	}

	for _, turn := range conv.Turns {
		switch turn.Role {
		case "user":
			if len(turn.Images) > 0 {
				msgs = append(msgs, multimodalMessage(turn))
			} else {
				msgs = append(msgs, schema.UserMessage(turn.Content))
			}
		case "assistant":
			msgs = append(msgs, schema.AssistantMessage(turn.Content, nil))
		case "system":
			msgs = append(msgs, schema.SystemMessage(turn.Content))
		default:
			msgs = append(msgs, schema.UserMessage(turn.Content))
		}
	}

	if !caps.Vision {
		return DegradeToTextOnly(msgs)
	}
	return msgs
}

// multimodalMessage builds a user message carrying the turn's text plus
// one inline data-URI image part per attachment.
func multimodalMessage(turn sessions.Turn) *schema.Message {
	parts := make([]schema.ChatMessagePart, 0, len(turn.Images)+1)
	if turn.Content != "" {
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeText,
			Text: turn.Content,
		})
	}
	for _, img := range turn.Images {
		url := img.URL
		if url == "" {
			url = dataURI(img)
		}
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      url,
				MIMEType: img.MIME,
			},
		})
	}
	return &schema.Message{
		Role:         schema.User,
		MultiContent: parts,
	}
}

func dataURI(img sessions.ImageRef) string {
	mime := img.MIME
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img.Data))
}

// DegradeToTextOnly replaces any MultiContent payload with its
// concatenated text parts plus a marker noting the dropped images.
// Idempotent: already-degraded and text-only messages pass through
// untouched. The input slice is not modified.
func DegradeToTextOnly(msgs []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, len(msgs))
	for i, msg := range msgs {
		if len(msg.MultiContent) == 0 {
			out[i] = msg
			continue
		}

		var sb strings.Builder
		hadImage := false
		for _, part := range msg.MultiContent {
			switch part.Type {
			case schema.ChatMessagePartTypeText:
				sb.WriteString(part.Text)
			case schema.ChatMessagePartTypeImageURL:
				hadImage = true
			}
		}

		content := sb.String()
		if hadImage {
			content = annotateDegraded(content)
		}

		clone := *msg
		clone.MultiContent = nil
		clone.Content = content
		out[i] = &clone
	}
	return out
}

// annotateDegraded appends the degraded-image marker exactly once.
func annotateDegraded(content string) string {
	if strings.HasSuffix(content, degradedImageMarker) {
		return content
	}
	return content + degradedImageMarker
}
