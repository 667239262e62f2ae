package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per phase for
// offline runs and testing.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	var obj any
	switch PhaseFrom(ctx) {
	case "clarify_with_user":
		obj = map[string]any{
			"need_clarification": false,
			"question":           "",
			"verification":       "I have enough context to proceed and will start the research now.",
		}
	case "write_research_brief":
		obj = map[string]any{
			"research_brief": "I want a concise overview of the requested topic covering its background, current state, and notable open questions, drawing on primary sources where possible",
		}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
