// Package config resolves process configuration from the environment, with a
// local .env file as a development convenience.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"deepscope/internal/llm"
)

// Defaults approximate one hosted-API request allowance with a little
// headroom left for other callers.
const (
	defaultRPS   = 8.3
	defaultBurst = 1
)

type Config struct {
	Provider string  // openai, gemini, or fake
	Model    string  // provider-specific model id; empty uses provider default
	APIKey   string
	BaseURL  string  // OpenAI-compatible endpoint override
	RPS      float64 // outbound request cap
	Burst    int
	Debug    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	provider := strings.ToLower(firstNonEmpty(os.Getenv("DEEPSCOPE_PROVIDER"), llm.ProviderOpenAI))

	cfg := &Config{
		Provider: provider,
		Model:    strings.TrimSpace(os.Getenv("DEEPSCOPE_MODEL")),
		RPS:      envFloat("DEEPSCOPE_RPS", defaultRPS),
		Burst:    envInt("DEEPSCOPE_BURST", defaultBurst),
		Debug:    envBool("DEEPSCOPE_DEBUG", false),
	}

	switch provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		cfg.BaseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	case llm.ProviderGemini:
		cfg.APIKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	case llm.ProviderFake:
		// offline; nothing to resolve
	default:
		return nil, fmt.Errorf("config: unknown provider %q", provider)
	}

	return cfg, nil
}

// LLM views the configuration as the model-client config.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		RPS:      c.RPS,
		Burst:    c.Burst,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func envFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
