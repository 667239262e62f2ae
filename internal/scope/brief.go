package scope

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deepscope/internal/llm"
	"deepscope/internal/prompts"
)

// BriefOut is the model's research brief: one self-contained research
// question distilled from the whole conversation.
type BriefOut struct {
	ResearchBrief string `json:"research_brief"`
}

// WriteBrief is the brief generation node. It runs only after clarification
// has been ruled out and condenses the transcript, verification message
// included, into the brief that guides downstream research.
type WriteBrief struct {
	LLM     llm.Client
	Prompts prompts.Library
	Now     func() time.Time // defaults to time.Now
}

// Run renders the transform instructions over the flattened transcript and
// decodes the model's brief. An empty brief counts as a schema violation.
func (n *WriteBrief) Run(ctx context.Context, msgs []Message) (BriefOut, error) {
	prompt := prompts.Render(n.Prompts.Brief, map[string]string{
		"messages": BufferString(msgs),
		"date":     prompts.Today(n.now()),
	})
	raw, err := n.LLM.GenerateJSON(llm.WithPhase(ctx, PhaseBrief), prompt)
	if err != nil {
		return BriefOut{}, fmt.Errorf("%s: %w", PhaseBrief, err)
	}
	out, err := llm.Decode[BriefOut](raw)
	if err != nil {
		return BriefOut{}, fmt.Errorf("%s: %w", PhaseBrief, err)
	}
	if strings.TrimSpace(out.ResearchBrief) == "" {
		return BriefOut{}, fmt.Errorf("%s: %w", PhaseBrief,
			&llm.SchemaError{Target: "scope.BriefOut", Err: errors.New("research_brief is empty")})
	}
	return out, nil
}

func (n *WriteBrief) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}
