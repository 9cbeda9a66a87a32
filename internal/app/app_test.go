package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fakeChatServer(t *testing.T, status int, body string) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Env:             config.Test,
		LLMProvider:     config.ProviderChat,
		LLMModel:        "test-model",
		LLMAPIURL:       apiURL,
		LLMAPIKey:       "hf_test",
		LLMMaxNewTokens: 64,
		LLMTimeout:      5 * time.Second,
		BudgetCurrency:  "INR",
		BudgetLow:       500,
		BudgetMedium:    1000,
		BudgetHigh:      2000,
		PromptCuisine:   "Indian",
		PromptWordLimit: 300,
	}
}

func post(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/diet-plan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestBuild_GenerateAndRetrieve(t *testing.T) {
	ts := fakeChatServer(t, http.StatusOK, `{"model":"test-model","choices":[{"message":{"role":"assistant","content":"<think>hmm</think>\n| Meal | Food Items |"}}]}`)
	cfg := testConfig(ts.URL)
	cfg.DatabaseDriver = "sqlite"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "plans.db")
	cfg.RateLimitRequests = 10
	cfg.RateLimitWindow = time.Minute

	a, err := Build(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	w := post(a.Handler, `{"age":30,"height_cm":180,"weight_kg":81,"diet_goal":"maintenance","budget":"premium 500"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.DietPlanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 25.0, result.BMI)
	assert.Equal(t, "High (around 2000 INR per day)", result.Budget)
	assert.Equal(t, "| Meal | Food Items |", result.Response)
	require.NotEmpty(t, result.ID)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))

	w = get(a.Handler, "/diet-plan/"+result.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var record models.DietPlanRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, result.ID, record.ID.String())
	assert.Equal(t, "chat", record.Provider)
	assert.Equal(t, "premium 500", *record.BudgetInput)

	w = get(a.Handler, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, w.Body.String())
}

func TestBuild_Minimal(t *testing.T) {
	ts := fakeChatServer(t, http.StatusServiceUnavailable, `{"error":"model loading"}`)
	a, err := Build(context.Background(), testConfig(ts.URL), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	w := get(a.Handler, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Diet Plan API is running"}`, w.Body.String())

	w = post(a.Handler, `{"age":30,"height_cm":180,"weight_kg":81,"diet_goal":"maintenance"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 1)
	assert.Contains(t, body["error"], "Failed to generate diet plan")

	assert.Equal(t, http.StatusNotFound, get(a.Handler, "/diet-plans").Code)
}

func TestBuild_RedisFallsBackToMemory(t *testing.T) {
	ts := fakeChatServer(t, http.StatusOK, `{"choices":[{"message":{"content":"plan"}}]}`)
	cfg := testConfig(ts.URL)
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Hour

	a, err := Build(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	body := `{"age":30,"height_cm":180,"weight_kg":81,"diet_goal":"maintenance"}`
	assert.Equal(t, http.StatusOK, post(a.Handler, body).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(a.Handler, body).Code)
}

func TestBuild_BadDatabase(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.DatabaseDriver = "sqlite"
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "missing", "dir", "plans.db")

	_, err := Build(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
