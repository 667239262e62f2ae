package llm

import "context"

type ctxKeyPhase struct{}

// WithPhase attaches a workflow phase label to the context. Middleware and
// fakes read it to tell model calls apart.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// PhaseFrom returns the phase stored in the context, or "unknown".
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
