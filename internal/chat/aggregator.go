package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Invocation is one fully-assembled tool call from a provider stream.
type Invocation struct {
	Index   int
	ID      string
	Name    string
	RawArgs string
	Args    map[string]any
	Err     error // argument parse failure, surfaced at dispatch time
}

// StreamResult is the reduction of a complete provider stream.
type StreamResult struct {
	FinalText   string
	Invocations []Invocation
}

// toolCallGroup accumulates fragments of one tool call while streaming.
type toolCallGroup struct {
	id   string
	name string
	args strings.Builder
}

// Consume pulls the stream to completion, concatenating text deltas and
// regrouping tool-call fragments. onDelta, if non-nil, is called with
// each text fragment as it arrives; it must not block for long since it
// runs on the pull loop. The stream is closed before returning.
//
// Fragments are grouped strictly by their Index (nil counts as 0); the
// name is taken from the first non-empty fragment and never overwritten;
// argument text concatenates in arrival order. At EOF each group's
// arguments are parsed as a single JSON object. A parse failure is
// recorded on the Invocation rather than aborting the whole stream.
func Consume(stream *schema.StreamReader[*schema.Message], onDelta func(string)) (*StreamResult, error) {
	defer stream.Close()

	var text strings.Builder
	groups := make(map[int]*toolCallGroup)

	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if msg.Content != "" {
			text.WriteString(msg.Content)
			if onDelta != nil {
				onDelta(msg.Content)
			}
		}

		for _, tc := range msg.ToolCalls {
			idx := 0
			if tc.Index != nil {
				idx = *tc.Index
			}
			g, ok := groups[idx]
			if !ok {
				g = &toolCallGroup{}
				groups[idx] = g
			}
			if g.id == "" {
				g.id = tc.ID
			}
			if g.name == "" {
				g.name = tc.Function.Name
			}
			g.args.WriteString(tc.Function.Arguments)
		}
	}

	result := &StreamResult{FinalText: text.String()}

	indexes := make([]int, 0, len(groups))
	for idx := range groups {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	for _, idx := range indexes {
		g := groups[idx]
		inv := Invocation{
			Index:   idx,
			ID:      g.id,
			Name:    g.name,
			RawArgs: g.args.String(),
		}
		if err := json.Unmarshal([]byte(inv.RawArgs), &inv.Args); err != nil {
			inv.Err = fmt.Errorf("parse tool arguments for %s: %w", inv.Name, err)
		}
		result.Invocations = append(result.Invocations, inv)
	}

	return result, nil
}
