package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextGenerationClient_Generate(t *testing.T) {
	var got textGenerationRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/google/flan-t5-base", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `[{"generated_text":"  Breakfast: poha  "}]`)
	}))
	defer ts.Close()

	client := NewTextGenerationClient(ts.Client(), ts.URL+"/", "", "google/flan-t5-base", 256)
	completion, err := client.Generate(context.Background(), Prompt{System: "sys", User: "usr"})
	require.NoError(t, err)

	assert.Equal(t, "  Breakfast: poha  ", completion.Text)
	assert.Equal(t, "google/flan-t5-base", completion.Model)
	assert.Equal(t, "sys\n\nusr", got.Inputs)
	assert.Equal(t, 256, got.Parameters.MaxNewTokens)
	assert.False(t, got.Parameters.ReturnFullText)
}

func TestParseGeneratedText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "list", body: `[{"generated_text":"a"},{"generated_text":"b"}]`, want: "a"},
		{name: "object", body: `{"generated_text":"solo"}`, want: "solo"},
		{name: "empty list", body: `[]`, wantErr: true},
		{name: "list with empty text", body: `[{"generated_text":""}]`, wantErr: true},
		{name: "object with empty text", body: `{"generated_text":""}`, wantErr: true},
		{name: "error object", body: `{"error":"Model is loading"}`, wantErr: true},
		{name: "garbage", body: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGeneratedText([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextGenerationClient_ServiceUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":"Model google/flan-t5-base is currently loading"}`)
	}))
	defer ts.Close()

	client := NewTextGenerationClient(ts.Client(), ts.URL, "", "google/flan-t5-base", 16)
	_, err := client.Generate(context.Background(), Prompt{User: "hi"})

	var llmErr *Error
	require.True(t, errors.As(err, &llmErr))
	assert.Equal(t, KindUpstream, llmErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, llmErr.StatusCode)
}
