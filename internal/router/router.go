package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/dietplan/backend/internal/api"
	"github.com/pageza/dietplan/backend/internal/middleware"
)

// SetupRouter configures the application routes. rateLimit may be nil.
func SetupRouter(
	logger zerolog.Logger,
	dietPlanHandler *api.DietPlanHandler,
	healthHandler *api.HealthHandler,
	rateLimit gin.HandlerFunc,
) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(),
		middleware.CORS(),
	)

	healthHandler.RegisterRoutes(router)

	var generate []gin.HandlerFunc
	if rateLimit != nil {
		generate = append(generate, rateLimit)
	}
	dietPlanHandler.RegisterRoutes(router, generate...)

	return router
}
