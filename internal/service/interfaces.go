package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/types"
)

// IDietPlanService defines the interface for diet plan generation
type IDietPlanService interface {
	GeneratePlan(ctx context.Context, req *types.DietRequest) (*types.DietPlanResult, error)
}

// IHistoryService defines the interface for stored diet plans
type IHistoryService interface {
	Save(ctx context.Context, record *models.DietPlanRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.DietPlanRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.DietPlanRecord, error)
}

// PlanArchiver copies generated plans to long-term storage
type PlanArchiver interface {
	Store(ctx context.Context, record *models.DietPlanRecord) error
}
