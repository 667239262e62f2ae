package scope

import (
	"context"
	"fmt"
	"time"

	"deepscope/internal/llm"
	"deepscope/internal/prompts"
)

// ClarifyOut is the model's clarification decision. NeedClarification gates
// which of the two strings is meaningful: Question goes back to the user,
// Verification acknowledges that research will start.
type ClarifyOut struct {
	NeedClarification bool   `json:"need_clarification"`
	Question          string `json:"question"`
	Verification      string `json:"verification"`
}

// Clarify is the clarification decision node. It reads only the transcript
// and produces a deterministic routing decision via structured model output.
type Clarify struct {
	LLM     llm.Client
	Prompts prompts.Library
	Now     func() time.Time // defaults to time.Now
}

// Run renders the clarification instructions over the flattened transcript
// and decodes the model's decision. Malformed payloads surface as
// *llm.SchemaError; transport failures propagate untouched.
func (n *Clarify) Run(ctx context.Context, msgs []Message) (ClarifyOut, error) {
	prompt := prompts.Render(n.Prompts.Clarify, map[string]string{
		"messages": BufferString(msgs),
		"date":     prompts.Today(n.now()),
	})
	raw, err := n.LLM.GenerateJSON(llm.WithPhase(ctx, PhaseClarify), prompt)
	if err != nil {
		return ClarifyOut{}, fmt.Errorf("%s: %w", PhaseClarify, err)
	}
	out, err := llm.Decode[ClarifyOut](raw)
	if err != nil {
		return ClarifyOut{}, fmt.Errorf("%s: %w", PhaseClarify, err)
	}
	return out, nil
}

func (n *Clarify) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}
