package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/types"
)

// MockDietPlanService is a mock implementation of the IDietPlanService interface
type MockDietPlanService struct {
	mock.Mock
}

func (m *MockDietPlanService) GeneratePlan(ctx context.Context, req *types.DietRequest) (*types.DietPlanResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DietPlanResult), args.Error(1)
}

// MockHistoryService is a mock implementation of the IHistoryService interface
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Save(ctx context.Context, record *models.DietPlanRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryService) Get(ctx context.Context, id uuid.UUID) (*models.DietPlanRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DietPlanRecord), args.Error(1)
}

func (m *MockHistoryService) ListRecent(ctx context.Context, limit int) ([]models.DietPlanRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DietPlanRecord), args.Error(1)
}
