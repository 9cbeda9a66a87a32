package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_LocalFailuresAreTyped(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		payload any
		want    Kind
	}{
		{name: "unencodable payload", url: "http://llm.test", payload: make(chan int), want: KindMalformed},
		{name: "invalid url", url: "http://llm.test/\x7f", payload: map[string]string{}, want: KindUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := postJSON(context.Background(), http.DefaultClient, "chat", tt.url, "", tt.payload)

			var llmErr *Error
			require.True(t, errors.As(err, &llmErr))
			assert.Equal(t, tt.want, llmErr.Kind)
			assert.Equal(t, "chat", llmErr.Provider)
		})
	}
}

func TestChatClient_InvalidURL(t *testing.T) {
	client := NewChatClient(http.DefaultClient, "::not a url", "", "model", 16)

	_, err := client.Generate(context.Background(), Prompt{User: "plan"})
	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, KindUnavailable, llmErr.Kind)
}
