package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

var (
	supportedDrivers   = []string{"postgres", "sqlite"}
	supportedProviders = []string{"groq", "deepseek", "claude", "gemini"}
	supportedFormats   = []string{"json", "console"}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a port number, got %q", cfg.ServerPort)
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for sqlite")
		}
	default:
		add("DB_DRIVER", "must be one of %s", strings.Join(supportedDrivers, ", "))
	}

	if !contains(supportedProviders, cfg.LLMProvider) {
		add("LLM_PROVIDER", "must be one of %s", strings.Join(supportedProviders, ", "))
	}
	if cfg.LLMTimeout <= 0 {
		add("LLM_TIMEOUT", "must be positive")
	}
	if cfg.LLMMaxToolRounds < 1 {
		add("LLM_MAX_TOOL_ROUNDS", "must be at least 1")
	}
	if cfg.LLMMaxTokens < 1 {
		add("LLM_MAX_TOKENS", "must be at least 1")
	}
	if cfg.ImageSearchRPS <= 0 {
		add("IMAGE_SEARCH_RPS", "must be positive")
	}
	if cfg.AIRateLimit < 0 {
		add("AI_RATE_LIMIT", "must not be negative")
	}
	if cfg.AIRateLimit > 0 && cfg.AIRateWindow <= 0 {
		add("AI_RATE_WINDOW", "must be positive when AI_RATE_LIMIT is set")
	}
	if !contains(supportedFormats, cfg.LogFormat) {
		add("LOG_FORMAT", "must be one of %s", strings.Join(supportedFormats, ", "))
	}

	// In production, sensitive values must be present
	if cfg.Environment == Production {
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required")
		}
		if cfg.LLMAPIKey == "" {
			add("LLM_API_KEY", "llm_api_key secret is required")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
