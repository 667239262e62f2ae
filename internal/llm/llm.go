package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client is the minimal surface the scoping workflow needs from a model
// provider. Implementations return the model's payload as raw JSON and leave
// typed decoding to the caller. Cross-cutting behavior (rate limiting,
// logging) is layered on with Middleware rather than baked into providers.
type Client interface {
	// Name identifies the provider and model, e.g. "OpenAI:gpt-4.1".
	Name() string
	// GenerateJSON sends the prompt and returns the model's JSON payload.
	// The context carries the workflow phase (see WithPhase) and cancels
	// the underlying request when done.
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
	// Close releases provider resources. Safe to call once.
	Close() error
}

// Provider names accepted by Config and the environment.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

// ErrInvalidJSON indicates the model returned an empty or non-JSON payload.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// PermanentError marks a failure that retrying cannot fix, such as a request
// the provider rejects for exceeding its context window.
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// NewPermanentError wraps err as permanent. Returns nil if err is nil.
func NewPermanentError(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// SchemaError indicates the model produced JSON, but not the record the
// caller asked for. It is distinct from transport failures so callers can
// tell a misbehaving model from an unreachable one.
type SchemaError struct {
	Target string // Go type the payload failed to decode into
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("llm: payload does not match %s: %v", e.Target, e.Err)
}
func (e *SchemaError) Unwrap() error { return e.Err }

// Decode parses a raw model payload into T. Any mismatch surfaces as a
// *SchemaError wrapping the underlying cause.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, &SchemaError{Target: fmt.Sprintf("%T", out), Err: ErrInvalidJSON}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &SchemaError{Target: fmt.Sprintf("%T", out), Err: err}
	}
	return out, nil
}
