package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/dietplan/backend/internal/llm"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/types"
)

// DietPlanHandler serves plan generation and, when history is configured,
// stored plan lookups.
type DietPlanHandler struct {
	plans   service.IDietPlanService
	history service.IHistoryService
}

// NewDietPlanHandler creates a new DietPlanHandler. history may be nil.
func NewDietPlanHandler(plans service.IDietPlanService, history service.IHistoryService) *DietPlanHandler {
	return &DietPlanHandler{
		plans:   plans,
		history: history,
	}
}

// RegisterRoutes mounts the plan endpoints. Middleware passed in guards
// only the generation endpoint.
func (h *DietPlanHandler) RegisterRoutes(router gin.IRouter, generateMiddleware ...gin.HandlerFunc) {
	generate := append(append([]gin.HandlerFunc{}, generateMiddleware...), h.CreatePlan)
	router.POST("/diet-plan", generate...)
	router.GET("/diet-plan/:id", h.GetPlan)
	router.GET("/diet-plans", h.ListPlans)
}

// CreatePlan handles POST /diet-plan
func (h *DietPlanHandler) CreatePlan(c *gin.Context) {
	var req types.DietRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	result, err := h.plans.GeneratePlan(c.Request.Context(), &req)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
			c.JSON(status, types.ErrorResponse{Error: fmt.Sprintf("Failed to generate diet plan: %v", err)})
			return
		}
		c.JSON(status, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPlan handles GET /diet-plan/:id
func (h *DietPlanHandler) GetPlan(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "plan history is disabled"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid plan id"})
		return
	}

	record, err := h.history.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("plan_id", id.String()).Msg("failed to load diet plan")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to load diet plan"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListPlans handles GET /diet-plans?limit=N
func (h *DietPlanHandler) ListPlans(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "plan history is disabled"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	records, err := h.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to list diet plans")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to list diet plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": records, "count": len(records)})
}

// statusForError maps a GeneratePlan failure to an HTTP status
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case llm.IsTimeout(err):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
