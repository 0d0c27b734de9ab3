package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/lazypower/rememberme/internal/config"
)

// Client is the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Response holds the result of an LLM completion.
type Response struct {
	Content    string
	Provider   string
	TokensUsed int
}

const defaultTimeout = 60 * time.Second

// NewClient creates an LLM client based on the config provider setting.
// When BreakerFailures is set the client is wrapped in a circuit breaker.
func NewClient(cfg config.LLMConfig) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var client Client
	switch cfg.Provider {
	case "gemini", "":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires GEMINI_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-1.5-flash"
		}
		url := cfg.GeminiURL
		if url == "" {
			url = geminiAPI
		}
		client = NewGemini(url, cfg.GeminiKey, model, timeout)
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		client = NewAnthropic(anthropicAPI, cfg.AnthropicKey, model, timeout)
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "llama3.2"
		}
		client = NewOllama(url, model, timeout)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}

	if cfg.BreakerFailures > 0 {
		client = NewBreaker(client, cfg.BreakerFailures, cfg.BreakerCooldown)
	}
	return client, nil
}
