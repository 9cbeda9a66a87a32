package config

import (
	"fmt"
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

var supportedProviders = map[string]bool{
	ProviderTextGeneration: true,
	ProviderChat:           true,
	ProviderGemini:         true,
}

var supportedDrivers = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

// ValidateConfig checks the configuration for values the service cannot run with.
// The inference credential is deliberately not checked here.
func ValidateConfig(cfg *Config) error {
	var errs []string

	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "must not be empty")
	}
	if !supportedProviders[cfg.LLMProvider] {
		add("LLM_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.LLMProvider))
	}
	if cfg.LLMModel == "" {
		add("LLM_MODEL", "must not be empty")
	}
	if cfg.LLMProvider != ProviderGemini && cfg.LLMAPIURL == "" {
		add("LLM_API_URL", "must not be empty")
	}
	if cfg.LLMMaxNewTokens <= 0 {
		add("LLM_MAX_NEW_TOKENS", "must be positive")
	}
	if cfg.LLMTimeout <= 0 {
		add("LLM_TIMEOUT", "must be positive")
	}
	if cfg.BudgetCurrency == "" {
		add("BUDGET_CURRENCY", "must not be empty")
	}
	if cfg.BudgetLow <= 0 || cfg.BudgetMedium <= 0 || cfg.BudgetHigh <= 0 {
		add("BUDGET_LOW/BUDGET_MEDIUM/BUDGET_HIGH", "must be positive")
	}
	if cfg.PromptWordLimit <= 0 {
		add("PROMPT_WORD_LIMIT", "must be positive")
	}
	if cfg.DatabaseURL != "" && !supportedDrivers[cfg.DatabaseDriver] {
		add("DATABASE_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DatabaseDriver))
	}
	if cfg.RateLimitRequests < 0 {
		add("RATE_LIMIT_REQUESTS", "must not be negative")
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive when rate limiting is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}
