package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dietplan/backend/internal/llm"
	"github.com/pageza/dietplan/backend/internal/mocks"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(plans service.IDietPlanService, history service.IHistoryService) *gin.Engine {
	router := gin.New()
	NewDietPlanHandler(plans, history).RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validBody = `{"age":30,"height_cm":180,"weight_kg":81,"diet_goal":"maintenance","budget":"low"}`

func TestCreatePlan_Success(t *testing.T) {
	plans := new(mocks.MockDietPlanService)
	plans.On("GeneratePlan", mock.Anything, mock.MatchedBy(func(req *types.DietRequest) bool {
		return req.Age == 30 && req.HeightCM == 180 && req.WeightKG == 81 &&
			req.DietGoal == "maintenance" && req.Budget != nil && *req.Budget == "low"
	})).Return(&types.DietPlanResult{
		BMI:      25,
		Budget:   "Low (around 500 INR per day)",
		Response: "plan",
	}, nil)

	w := doJSON(setupRouter(plans, nil), http.MethodPost, "/diet-plan", validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bmi":25,"budget":"Low (around 500 INR per day)","response":"plan"}`, w.Body.String())
	plans.AssertExpectations(t)
}

func TestCreatePlan_BindingErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"age":`},
		{name: "missing goal", body: `{"age":30,"height_cm":180,"weight_kg":81}`},
		{name: "zero height", body: `{"age":30,"height_cm":0,"weight_kg":81,"diet_goal":"x"}`},
		{name: "negative weight", body: `{"age":30,"height_cm":180,"weight_kg":-1,"diet_goal":"x"}`},
		{name: "wrong type", body: `{"age":"thirty","height_cm":180,"weight_kg":81,"diet_goal":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := new(mocks.MockDietPlanService)
			w := doJSON(setupRouter(plans, nil), http.MethodPost, "/diet-plan", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Len(t, body, 1)
			assert.Contains(t, body, "error")
			plans.AssertNotCalled(t, "GeneratePlan", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePlan_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid measurements", err: service.ErrInvalidMeasurements, wantStatus: http.StatusBadRequest},
		{name: "timeout", err: &llm.Error{Kind: llm.KindTimeout, Provider: "chat", Err: context.DeadlineExceeded}, wantStatus: http.StatusGatewayTimeout},
		{name: "upstream", err: &llm.Error{Kind: llm.KindUpstream, Provider: "chat", StatusCode: 500, Err: errors.New("boom")}, wantStatus: http.StatusBadGateway},
		{name: "unauthorized", err: &llm.Error{Kind: llm.KindUnauthorized, Provider: "chat", StatusCode: 401, Err: errors.New("bad token")}, wantStatus: http.StatusBadGateway},
		{name: "missing credential", err: llm.ErrMissingCredential, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := new(mocks.MockDietPlanService)
			plans.On("GeneratePlan", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(setupRouter(plans, nil), http.MethodPost, "/diet-plan", validBody)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Len(t, body, 1, "failure body carries only the error")
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetPlan(t *testing.T) {
	id := uuid.New()
	history := new(mocks.MockHistoryService)
	history.On("Get", mock.Anything, id).Return(&models.DietPlanRecord{ID: id, DietGoal: "maintenance", BMI: 25}, nil)
	missing := uuid.New()
	history.On("Get", mock.Anything, missing).Return(nil, service.ErrPlanNotFound)

	router := setupRouter(new(mocks.MockDietPlanService), history)

	w := doJSON(router, http.MethodGet, "/diet-plan/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var record models.DietPlanRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "maintenance", record.DietGoal)

	w = doJSON(router, http.MethodGet, "/diet-plan/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/diet-plan/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlans(t *testing.T) {
	history := new(mocks.MockHistoryService)
	history.On("ListRecent", mock.Anything, 5).Return([]models.DietPlanRecord{{DietGoal: "a"}, {DietGoal: "b"}}, nil)
	history.On("ListRecent", mock.Anything, 0).Return([]models.DietPlanRecord{}, nil)

	router := setupRouter(new(mocks.MockDietPlanService), history)

	w := doJSON(router, http.MethodGet, "/diet-plans?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Plans []models.DietPlanRecord `json:"plans"`
		Count int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "a", body.Plans[0].DietGoal)

	w = doJSON(router, http.MethodGet, "/diet-plans", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/diet-plans?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	history.AssertExpectations(t)
}

func TestHistoryDisabled(t *testing.T) {
	router := setupRouter(new(mocks.MockDietPlanService), nil)

	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/diet-plan/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/diet-plans", "").Code)
}

func TestRegisterRoutesGuardsOnlyGeneration(t *testing.T) {
	blocked := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{Error: "slow down"})
	}
	router := gin.New()
	NewDietPlanHandler(new(mocks.MockDietPlanService), nil).RegisterRoutes(router, blocked)

	assert.Equal(t, http.StatusTooManyRequests, doJSON(router, http.MethodPost, "/diet-plan", validBody).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/diet-plans", "").Code)
}
