package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// geminiGenerator calls Google Gemini through the official SDK
type geminiGenerator struct {
	client *genai.Client
	model  string
	max    int32
}

// NewGeminiGenerator creates a Gemini backed generator. Without an API key it
// still starts and fails each request with ErrMissingCredential.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, maxNewTokens int) (Generator, error) {
	if apiKey == "" {
		return missingCredentialGenerator{provider: providerGemini}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiGenerator{client: client, model: model, max: int32(maxNewTokens)}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt Prompt) (Completion, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(g.max)
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return Completion{}, transportError(providerGemini, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Completion{}, malformedError(providerGemini, errors.New("no content generated"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return Completion{}, malformedError(providerGemini, errors.New("generated content is not text"))
	}

	return Completion{Text: sb.String(), Model: g.model, Provider: providerGemini}, nil
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

type missingCredentialGenerator struct {
	provider string
}

func (m missingCredentialGenerator) Generate(context.Context, Prompt) (Completion, error) {
	return Completion{}, &Error{Kind: KindUnauthorized, Provider: m.provider, Err: ErrMissingCredential}
}

func (m missingCredentialGenerator) Close() error {
	return nil
}
