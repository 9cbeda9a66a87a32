package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names the call shape used against the remote inference endpoint
const (
	ProviderTextGeneration = "text-generation"
	ProviderChat           = "chat"
	ProviderGemini         = "gemini"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort string
	ServerHost string
	LogLevel   string

	// Inference configuration
	LLMProvider     string
	LLMModel        string
	LLMAPIURL       string
	LLMAPIKey       string
	LLMMaxNewTokens int
	LLMTimeout      time.Duration

	// Budget normalization anchors
	BudgetCurrency string
	BudgetLow      int
	BudgetMedium   int
	BudgetHigh     int

	// Prompt constraints
	PromptCuisine   string
	PromptWordLimit int

	// Plan history, disabled when DatabaseURL is empty
	DatabaseDriver string
	DatabaseURL    string
	MigrationsDir  string

	// Rate limiting, redis backed when RedisURL is set
	RedisURL          string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Plan archive, disabled when S3BucketName is empty
	S3BucketName string
	AWSRegion    string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	env := &envParser{}
	cfg := &Config{
		Env:               GetEnvironment(),
		ServerPort:        getEnvOrDefault("SERVER_PORT", "8000"),
		ServerHost:        getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LLMProvider:       strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderChat)),
		LLMModel:          getEnvOrDefault("LLM_MODEL", "HuggingFaceH4/zephyr-7b-beta"),
		LLMAPIURL:         os.Getenv("LLM_API_URL"),
		LLMAPIKey:         loadAPIKey(),
		LLMMaxNewTokens:   env.intOrDefault("LLM_MAX_NEW_TOKENS", 512),
		LLMTimeout:        env.durationOrDefault("LLM_TIMEOUT", 60*time.Second),
		BudgetCurrency:    getEnvOrDefault("BUDGET_CURRENCY", "INR"),
		BudgetLow:         env.intOrDefault("BUDGET_LOW", 500),
		BudgetMedium:      env.intOrDefault("BUDGET_MEDIUM", 1000),
		BudgetHigh:        env.intOrDefault("BUDGET_HIGH", 2000),
		PromptCuisine:     getEnvOrDefault("PROMPT_CUISINE", "Indian"),
		PromptWordLimit:   env.intOrDefault("PROMPT_WORD_LIMIT", 300),
		DatabaseDriver:    strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "postgres")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsDir:     getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RateLimitRequests: env.intOrDefault("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   env.durationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		S3BucketName:      os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:         os.Getenv("AWS_REGION"),
	}

	if len(env.errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(env.errs, "\n"))
	}

	if cfg.LLMAPIURL == "" {
		cfg.LLMAPIURL = defaultAPIURL(cfg.LLMProvider)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func defaultAPIURL(provider string) string {
	switch provider {
	case ProviderTextGeneration:
		return "https://api-inference.huggingface.co"
	case ProviderChat:
		return "https://router.huggingface.co/v1/chat/completions"
	default:
		return ""
	}
}

// loadAPIKey resolves the inference credential. An empty result is allowed:
// requests against providers that need it fail individually.
func loadAPIKey() string {
	for _, key := range []string{"HF_TOKEN", "LLM_API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	if path := os.Getenv("HF_TOKEN_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret("hf_token")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// envParser collects malformed numeric values so they are reported together
type envParser struct {
	errs []string
}

func (p *envParser) invalid(key, val, kind string) {
	p.errs = append(p.errs, ValidationError{Field: key, Message: fmt.Sprintf("invalid %s %q", kind, val)}.Error())
}

func (p *envParser) intOrDefault(key string, defaultVal int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		p.invalid(key, val, "integer")
		return defaultVal
	}
	return n
}

func (p *envParser) durationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		p.invalid(key, val, "duration")
		return defaultVal
	}
	return d
}
