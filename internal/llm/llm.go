// Package llm talks to the remote text-generation provider. The call shape
// (plain completion, chat completion or Gemini) is chosen by configuration.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pageza/dietplan/backend/config"
)

// Prompt is the rendered request sent to the model
type Prompt struct {
	System string
	User   string
}

// Text flattens the prompt for providers without a system role
func (p Prompt) Text() string {
	if p.System == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

// Completion is the raw model output with the identity of who produced it
type Completion struct {
	Text     string
	Model    string
	Provider string
}

// Generator produces a single complete response for a prompt. Implementations
// are safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (Completion, error)
	Close() error
}

// New builds the generator for the configured provider. It is called once at
// startup and the result is shared by every request.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	httpClient := &http.Client{Timeout: cfg.LLMTimeout}

	switch cfg.LLMProvider {
	case config.ProviderTextGeneration:
		return NewTextGenerationClient(httpClient, cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxNewTokens), nil
	case config.ProviderChat:
		return NewChatClient(httpClient, cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxNewTokens), nil
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxNewTokens)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
