package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipe-catalog/backend/config"
)

// ErrNoAPIKey is returned when the selected provider has no credentials.
var ErrNoAPIKey = errors.New("LLM_API_KEY is not set")

// NewProvider builds the provider selected by cfg.LLMProvider.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if cfg.LLMAPIKey == "" {
		return nil, ErrNoAPIKey
	}

	switch cfg.LLMProvider {
	case "groq", "":
		return NewOpenAIProvider("groq", orDefault(cfg.LLMBaseURL, GroqBaseURL), cfg.LLMAPIKey, orDefault(cfg.LLMModel, GroqModel)), nil
	case "deepseek":
		return NewOpenAIProvider("deepseek", orDefault(cfg.LLMBaseURL, DeepSeekBaseURL), cfg.LLMAPIKey, orDefault(cfg.LLMModel, DeepSeekModel)), nil
	case "claude":
		return NewClaudeProvider(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// DisabledProvider fails every request. It stands in when no provider could
// be configured so the catalog endpoints keep working.
type DisabledProvider struct {
	Reason error
}

// Name returns the provider identifier.
func (p DisabledProvider) Name() string {
	return "disabled"
}

// Complete always fails.
func (p DisabledProvider) Complete(context.Context, *CompletionRequest) (*CompletionResponse, error) {
	return nil, fmt.Errorf("language model unavailable: %w", p.Reason)
}
