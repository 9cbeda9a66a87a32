package service

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRequest marks input the service refuses to work with
var ErrInvalidRequest = errors.New("invalid diet plan request")

// ErrInvalidMeasurements is returned for non-positive or non-finite height or weight
var ErrInvalidMeasurements = fmt.Errorf("%w: height and weight must be positive numbers", ErrInvalidRequest)

// CalculateBMI returns weight / (height in meters)^2 rounded to 2 decimals
func CalculateBMI(heightCM, weightKG float64) (float64, error) {
	if !isPositive(heightCM) || !isPositive(weightKG) {
		return 0, ErrInvalidMeasurements
	}

	heightM := heightCM / 100
	bmi := weightKG / (heightM * heightM)
	if math.IsInf(bmi, 0) || math.IsNaN(bmi) {
		return 0, ErrInvalidMeasurements
	}

	return math.Round(bmi*100) / 100, nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
