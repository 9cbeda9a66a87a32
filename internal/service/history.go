package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/dietplan/backend/internal/models"
)

// ErrPlanNotFound is returned when no stored plan has the requested id
var ErrPlanNotFound = errors.New("diet plan not found")

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// HistoryService stores generated plans through gorm
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Save inserts record, assigning an id and timestamp when missing
func (s *HistoryService) Save(ctx context.Context, record *models.DietPlanRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to save diet plan: %w", err)
	}
	return nil
}

// Get loads a stored plan by id
func (s *HistoryService) Get(ctx context.Context, id uuid.UUID) (*models.DietPlanRecord, error) {
	var record models.DietPlanRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diet plan: %w", err)
	}
	return &record, nil
}

// ListRecent returns the newest plans first. limit is clamped to [1, 100]
// with 20 used for non-positive values.
func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]models.DietPlanRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var records []models.DietPlanRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list diet plans: %w", err)
	}
	return records, nil
}
