package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter" or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig targets Gemini Flash. Post replies are short, so the retry
// budget is small to keep request latency bounded.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 15 * time.Second,
	}
}

// envOverrides lists ALME_* variables and the field each one sets.
func envOverrides(cfg *Config) map[string]*string {
	return map[string]*string{
		"ALME_LLM_PROVIDER":        &cfg.Provider,
		"ALME_ANTHROPIC_API_KEY":   &cfg.Anthropic.APIKey,
		"ALME_ANTHROPIC_MODEL":     &cfg.Anthropic.Model,
		"ALME_OPENAI_API_KEY":      &cfg.OpenAI.APIKey,
		"ALME_OPENAI_MODEL":        &cfg.OpenAI.Model,
		"ALME_OPENAI_BASE_URL":     &cfg.OpenAI.BaseURL,
		"ALME_GEMINI_API_KEY":      &cfg.Gemini.APIKey,
		"ALME_GEMINI_MODEL":        &cfg.Gemini.Model,
		"ALME_OPENROUTER_API_KEY":  &cfg.OpenRouter.APIKey,
		"ALME_OPENROUTER_MODEL":    &cfg.OpenRouter.Model,
		"ALME_OPENROUTER_BASE_URL": &cfg.OpenRouter.BaseURL,
	}
}

// ConfigFromEnv builds a Config from ALME_* environment variables on top of
// the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range envOverrides(&cfg) {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	if v := os.Getenv("ALME_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// DiscoverConfig checks the providers' standard API key variables in the order
// Gemini, OpenAI, Anthropic, OpenRouter and configures the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	candidates := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", "gemini", &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", "openai", &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &cfg.OpenRouter.APIKey},
	}
	for _, p := range candidates {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "ALME_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "ALME_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "ALME_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "ALME_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
