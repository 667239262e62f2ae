package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config describes the model client a process builds once at startup and
// threads through the workflow. Zero values fall back to provider defaults.
type Config struct {
	Provider string  // openai, gemini, or fake; empty means openai
	Model    string  // provider-specific model id
	APIKey   string
	BaseURL  string  // OpenAI-compatible endpoint override
	RPS      float64 // outbound request cap; <= 0 disables
	Burst    int
}

// New constructs the configured provider and wraps it with the standard
// middleware stack (logging outermost, then the request-rate cap). The
// caller owns the returned client and must Close it.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Client, error) {
	var (
		inner Client
		err   error
	)
	switch cfg.Provider {
	case "", ProviderOpenAI:
		inner = NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderGemini:
		inner, err = NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("llm: gemini client: %w", err)
		}
	case ProviderFake:
		inner = NewFakeClient()
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	return Wrap(inner,
		WithLogging(logger),
		RateLimit(cfg.RPS, cfg.Burst),
	), nil
}
