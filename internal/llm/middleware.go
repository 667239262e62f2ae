package llm

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, logging, etc.).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// RateLimit caps outbound request rate with a token bucket. rps <= 0
// disables the cap. Close releases the limiter's refill goroutine.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }

func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}

func (c *rateLimited) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, prompt)
}

// WithLogging logs each model call with its phase, sizes, and latency.
// Provide a custom logger or nil for a no-op one.
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	l.log.Debug("model request",
		zap.String("phase", phase),
		zap.String("client", l.next.Name()),
		zap.Int("prompt_bytes", len(prompt)),
	)
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, prompt)
	if err != nil {
		l.log.Error("model request failed",
			zap.String("phase", phase),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	l.log.Debug("model response",
		zap.String("phase", phase),
		zap.Int("response_bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return raw, nil
}
