package models

import (
	"time"

	"github.com/google/uuid"
)

// DietPlanRecord is a generated plan kept for later retrieval
type DietPlanRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	Age         int       `json:"age"`
	HeightCM    float64   `json:"height_cm"`
	WeightKG    float64   `json:"weight_kg"`
	DietGoal    string    `json:"diet_goal"`
	Allergies   string    `json:"allergies"`
	BudgetInput *string   `json:"budget_input,omitempty"`
	Budget      string    `json:"budget"`
	BMI         float64   `json:"bmi"`
	Response    string    `gorm:"type:text" json:"response"`
	Model       string    `json:"model"`
	Provider    string    `json:"provider"`
}

// TableName specifies the table name for DietPlanRecord
func (DietPlanRecord) TableName() string {
	return "diet_plans"
}
