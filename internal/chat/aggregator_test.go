package chat

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func intPtr(i int) *int { return &i }

func streamOf(msgs ...*schema.Message) *schema.StreamReader[*schema.Message] {
	return schema.StreamReaderFromArray(msgs)
}

func TestConsumeTextOnly(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, Content: "Hel"},
		&schema.Message{Role: schema.Assistant, Content: "lo "},
		&schema.Message{Role: schema.Assistant, Content: "world"},
	)

	var deltas []string
	result, err := Consume(stream, func(d string) { deltas = append(deltas, d) })
	if err != nil {
		t.Fatal(err)
	}

	if result.FinalText != "Hello world" {
		t.Errorf("final text: %q", result.FinalText)
	}
	if len(result.Invocations) != 0 {
		t.Errorf("unexpected invocations: %+v", result.Invocations)
	}
	if strings.Join(deltas, "") != "Hello world" {
		t.Errorf("deltas: %v", deltas)
	}
}

func TestConsumeToolCallFragments(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), ID: "call_1", Function: schema.FunctionCall{Name: "web_search", Arguments: `{"que`}},
		}},
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), Function: schema.FunctionCall{Arguments: `ry": "go`}},
		}},
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), Function: schema.FunctionCall{Arguments: ` releases"}`}},
		}},
	)

	result, err := Consume(stream, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Invocations) != 1 {
		t.Fatalf("got %d invocations", len(result.Invocations))
	}
	inv := result.Invocations[0]
	if inv.Name != "web_search" || inv.ID != "call_1" {
		t.Errorf("invocation: %+v", inv)
	}
	if inv.Err != nil {
		t.Fatalf("unexpected parse error: %v", inv.Err)
	}
	if inv.Args["query"] != "go releases" {
		t.Errorf("args: %+v", inv.Args)
	}
}

func TestConsumeNilIndexIsZero(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{ID: "call_1", Function: schema.FunctionCall{Name: "generate_image", Arguments: `{"prompt":`}},
		}},
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), Function: schema.FunctionCall{Arguments: `"a fox"}`}},
		}},
	)

	result, err := Consume(stream, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Invocations) != 1 {
		t.Fatalf("nil and 0 index should merge into one group, got %d", len(result.Invocations))
	}
	if result.Invocations[0].Args["prompt"] != "a fox" {
		t.Errorf("args: %+v", result.Invocations[0].Args)
	}
}

func TestConsumeMultipleInvocationsOrdered(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(1), ID: "b", Function: schema.FunctionCall{Name: "web_search", Arguments: `{"query":"x"}`}},
			{Index: intPtr(0), ID: "a", Function: schema.FunctionCall{Name: "generate_image", Arguments: `{"prompt":"y"}`}},
		}},
	)

	result, err := Consume(stream, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Invocations) != 2 {
		t.Fatalf("got %d invocations", len(result.Invocations))
	}
	if result.Invocations[0].Name != "generate_image" || result.Invocations[1].Name != "web_search" {
		t.Errorf("not ordered by index: %+v", result.Invocations)
	}
}

func TestConsumeNameFirstWins(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), Function: schema.FunctionCall{Name: "web_search", Arguments: `{}`}},
		}},
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), Function: schema.FunctionCall{Name: "something_else"}},
		}},
	)

	result, err := Consume(stream, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Invocations[0].Name != "web_search" {
		t.Errorf("first name should win: %q", result.Invocations[0].Name)
	}
}

func TestConsumeMalformedArguments(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), Function: schema.FunctionCall{Name: "web_search", Arguments: `{"query": oops`}},
		}},
	)

	result, err := Consume(stream, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Invocations) != 1 {
		t.Fatalf("malformed args must still produce an invocation")
	}
	if result.Invocations[0].Err == nil {
		t.Error("parse failure must be recorded on the invocation")
	}
}

func TestConsumeMixedTextAndTools(t *testing.T) {
	stream := streamOf(
		&schema.Message{Role: schema.Assistant, Content: "Let me look that up. "},
		&schema.Message{Role: schema.Assistant, ToolCalls: []schema.ToolCall{
			{Index: intPtr(0), ID: "c1", Function: schema.FunctionCall{Name: "web_search", Arguments: `{"query":"weather"}`}},
		}},
	)

	result, err := Consume(stream, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FinalText != "Let me look that up. " {
		t.Errorf("text: %q", result.FinalText)
	}
	if len(result.Invocations) != 1 {
		t.Errorf("invocations: %+v", result.Invocations)
	}
}
