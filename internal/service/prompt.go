package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/dietplan/backend/internal/llm"
	"github.com/pageza/dietplan/backend/internal/types"
)

const systemPersona = `You are a certified nutritionist and dietitian. You design practical, ` +
	`affordable one-day meal plans that respect a person's goal, allergies and budget. ` +
	`Answer only with the plan, without preamble.`

// PlanTableColumns is the column layout the model is asked to use
var PlanTableColumns = []string{"Meal", "Food Items", "Quantity", "Calories", "Estimated Cost"}

// PromptBuilder renders the fixed diet plan template
type PromptBuilder struct {
	cuisine   string
	wordLimit int
}

// NewPromptBuilder creates a builder with the cuisine and word limit constraints
func NewPromptBuilder(cuisine string, wordLimit int) *PromptBuilder {
	return &PromptBuilder{cuisine: cuisine, wordLimit: wordLimit}
}

// Build substitutes the request fields into the template. The output depends
// only on its arguments.
func (b *PromptBuilder) Build(req *types.DietRequest, bmi float64, budget string) llm.Prompt {
	allergies := strings.TrimSpace(req.Allergies)
	if allergies == "" {
		allergies = "None"
	}
	if budget == "" {
		budget = BudgetNotSpecified
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a healthy one-day %s diet plan for a %d-year-old person who is %s cm tall, weighs %s kg and has a BMI of %s.\n",
		b.cuisine, req.Age, formatNumber(req.HeightCM), formatNumber(req.WeightKG), formatNumber(bmi))
	fmt.Fprintf(&sb, "Goal: %s\n", strings.TrimSpace(req.DietGoal))
	fmt.Fprintf(&sb, "Allergies: %s\n", allergies)
	fmt.Fprintf(&sb, "Budget: %s\n\n", budget)
	sb.WriteString("Requirements:\n")
	fmt.Fprintf(&sb, "- Use only %s cuisine and commonly available ingredients.\n", b.cuisine)
	fmt.Fprintf(&sb, "- Keep the whole answer under %d words.\n", b.wordLimit)
	sb.WriteString("- Cover Breakfast, Mid-Morning Snack, Lunch, Evening Snack and Dinner.\n")
	fmt.Fprintf(&sb, "- Present the plan as a table with the columns: %s.\n", strings.Join(PlanTableColumns, " | "))
	sb.WriteString("- Stay within the budget and never include the listed allergens.")

	return llm.Prompt{System: systemPersona, User: sb.String()}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
