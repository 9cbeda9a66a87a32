package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const providerChat = "chat"

// ChatClient calls an OpenAI-compatible chat completion endpoint
type ChatClient struct {
	httpClient   *http.Client
	apiURL       string
	apiKey       string
	model        string
	maxNewTokens int
}

// NewChatClient creates a new chat completion client
func NewChatClient(httpClient *http.Client, apiURL, apiKey, model string, maxNewTokens int) *ChatClient {
	return &ChatClient{
		httpClient:   httpClient,
		apiURL:       apiURL,
		apiKey:       apiKey,
		model:        model,
		maxNewTokens: maxNewTokens,
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completion API
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the system and user messages and returns the first choice
func (c *ChatClient) Generate(ctx context.Context, prompt Prompt) (Completion, error) {
	messages := make([]Message, 0, 2)
	if prompt.System != "" {
		messages = append(messages, Message{Role: "system", Content: prompt.System})
	}
	messages = append(messages, Message{Role: "user", Content: prompt.User})

	reqBody := ChatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxNewTokens,
		Stream:    false,
	}

	body, err := postJSON(ctx, c.httpClient, providerChat, c.apiURL, c.apiKey, reqBody)
	if err != nil {
		return Completion{}, err
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return Completion{}, malformedError(providerChat, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(result.Choices) == 0 {
		return Completion{}, malformedError(providerChat, errors.New("no choices in response"))
	}

	model := result.Model
	if model == "" {
		model = c.model
	}

	return Completion{Text: result.Choices[0].Message.Content, Model: model, Provider: providerChat}, nil
}

// Close is a no-op, the HTTP client is shared
func (c *ChatClient) Close() error {
	return nil
}
