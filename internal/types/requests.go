package types

// DietRequest is the body of POST /diet-plan
type DietRequest struct {
	Age       int     `json:"age" binding:"required,gt=0"`
	HeightCM  float64 `json:"height_cm" binding:"required,gt=0"`
	WeightKG  float64 `json:"weight_kg" binding:"required,gt=0"`
	DietGoal  string  `json:"diet_goal" binding:"required"`
	Allergies string  `json:"allergies"`
	Budget    *string `json:"budget"`
}

// DietPlanResult is the successful reply of POST /diet-plan
type DietPlanResult struct {
	ID       string  `json:"id,omitempty"`
	BMI      float64 `json:"bmi"`
	Budget   string  `json:"budget"`
	Response string  `json:"response"`
}

// ErrorResponse is the only body returned on failure
type ErrorResponse struct {
	Error string `json:"error"`
}
