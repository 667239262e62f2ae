package scope

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deepscope/internal/llm"
	"deepscope/internal/prompts"
)

// Workflow phase labels; also attached to model-call contexts via llm.WithPhase.
const (
	PhaseClarify = "clarify_with_user"
	PhaseBrief   = "write_research_brief"
)

// Outcome names the terminal a scoping invocation reached. Every successful
// run ends in exactly one of the two.
type Outcome string

const (
	// OutcomeClarificationNeeded: the workflow stopped early with a question
	// for the user; no brief exists yet.
	OutcomeClarificationNeeded Outcome = "clarification_needed"
	// OutcomeBriefWritten: the research brief was produced and the
	// supervisor conversation seeded.
	OutcomeBriefWritten Outcome = "brief_written"
)

// Result is the terminal product of one invocation.
type Result struct {
	RunID    string
	Outcome  Outcome
	Question string // set only when clarification is needed
	State    *State
}

// Workflow wires the two nodes into the scoping flow:
// clarify_with_user -> (end | write_research_brief -> end).
type Workflow struct {
	prompts prompts.Library
	now     func() time.Time
	log     *zap.Logger

	clarify *Clarify
	brief   *WriteBrief
}

// Option adjusts workflow construction.
type Option func(*Workflow)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Workflow) {
		if log != nil {
			w.log = log
		}
	}
}

// WithPrompts substitutes the template library.
func WithPrompts(lib prompts.Library) Option {
	return func(w *Workflow) { w.prompts = lib }
}

// WithClock pins the date both prompts embed; tests use it for determinism.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

// New builds the workflow around an explicitly constructed model client.
func New(cli llm.Client, opts ...Option) *Workflow {
	w := &Workflow{
		prompts: prompts.Default(),
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.clarify = &Clarify{LLM: cli, Prompts: w.prompts, Now: w.now}
	w.brief = &WriteBrief{LLM: cli, Prompts: w.prompts, Now: w.now}
	return w
}

// Run executes one scoping invocation over the input conversation. The input
// slice is copied, never mutated. Any model failure aborts the invocation
// with a nil result; otherwise exactly one Outcome is reached.
func (w *Workflow) Run(ctx context.Context, input []Message) (*Result, error) {
	runID := uuid.NewString()
	log := w.log.With(zap.String("run_id", runID))

	st := &State{Messages: append([]Message(nil), input...)}
	log.Debug("scoping started", zap.Int("messages", len(st.Messages)))

	decision, err := w.clarify.Run(ctx, st.Messages)
	if err != nil {
		log.Error("clarification decision failed", zap.Error(err))
		return nil, err
	}

	if decision.NeedClarification {
		Update{Messages: []Message{AI(decision.Question)}}.Apply(st)
		log.Info("clarification requested", zap.Int("question_len", len(decision.Question)))
		return &Result{
			RunID:    runID,
			Outcome:  OutcomeClarificationNeeded,
			Question: decision.Question,
			State:    st,
		}, nil
	}

	// The verification message joins the transcript before the brief node
	// reads it.
	Update{Messages: []Message{AI(decision.Verification)}}.Apply(st)

	brief, err := w.brief.Run(ctx, st.Messages)
	if err != nil {
		log.Error("brief generation failed", zap.Error(err))
		return nil, err
	}

	// Seed the supervisor conversation; the trailing period closes the
	// brief as a sentence.
	Update{
		ResearchBrief:      brief.ResearchBrief,
		SupervisorMessages: []Message{Human(brief.ResearchBrief + ".")},
	}.Apply(st)

	log.Info("research brief written", zap.Int("brief_len", len(brief.ResearchBrief)))
	return &Result{RunID: runID, Outcome: OutcomeBriefWritten, State: st}, nil
}
