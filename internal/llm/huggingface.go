package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const providerTextGeneration = "text-generation"

// TextGenerationClient calls the Hugging Face Inference API text-generation task
type TextGenerationClient struct {
	httpClient   *http.Client
	endpoint     string
	apiKey       string
	model        string
	maxNewTokens int
}

// NewTextGenerationClient creates a client posting to {baseURL}/models/{model}
func NewTextGenerationClient(httpClient *http.Client, baseURL, apiKey, model string, maxNewTokens int) *TextGenerationClient {
	return &TextGenerationClient{
		httpClient:   httpClient,
		endpoint:     strings.TrimRight(baseURL, "/") + "/models/" + model,
		apiKey:       apiKey,
		model:        model,
		maxNewTokens: maxNewTokens,
	}
}

type textGenerationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters textGenerationParams `json:"parameters"`
	Options    map[string]bool      `json:"options"`
}

type textGenerationParams struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends the flattened prompt and returns the generated text
func (c *TextGenerationClient) Generate(ctx context.Context, prompt Prompt) (Completion, error) {
	reqBody := textGenerationRequest{
		Inputs: prompt.Text(),
		Parameters: textGenerationParams{
			MaxNewTokens:   c.maxNewTokens,
			ReturnFullText: false,
		},
		Options: map[string]bool{"wait_for_model": true},
	}

	body, err := postJSON(ctx, c.httpClient, providerTextGeneration, c.endpoint, c.apiKey, reqBody)
	if err != nil {
		return Completion{}, err
	}

	text, err := parseGeneratedText(body)
	if err != nil {
		return Completion{}, malformedError(providerTextGeneration, err)
	}

	return Completion{Text: text, Model: c.model, Provider: providerTextGeneration}, nil
}

// parseGeneratedText accepts both the list and the single object reply
// shapes. A reply without generated text is malformed either way.
func parseGeneratedText(body []byte) (string, error) {
	var single generatedText
	var list []generatedText
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) > 0 {
			single = list[0]
		}
	} else if err := json.Unmarshal(body, &single); err != nil {
		return "", err
	}

	if single.GeneratedText == "" {
		return "", errors.New("no generated text in response")
	}
	return single.GeneratedText, nil
}

// Close is a no-op, the HTTP client is shared
func (c *TextGenerationClient) Close() error {
	return nil
}
