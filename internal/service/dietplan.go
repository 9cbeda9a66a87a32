package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/llm"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/types"
)

// DietPlanService turns a DietRequest into a generated plan. It holds no
// per-request state and is shared by all handlers.
type DietPlanService struct {
	generator llm.Generator
	prompts   *PromptBuilder
	budgets   *BudgetNormalizer
	history   IHistoryService
	archive   PlanArchiver
}

// Option configures optional collaborators of DietPlanService
type Option func(*DietPlanService)

// WithHistory persists every successful plan
func WithHistory(h IHistoryService) Option {
	return func(s *DietPlanService) { s.history = h }
}

// WithArchive copies every successful plan to long-term storage
func WithArchive(a PlanArchiver) Option {
	return func(s *DietPlanService) { s.archive = a }
}

// NewDietPlanService creates a new DietPlanService instance
func NewDietPlanService(generator llm.Generator, prompts *PromptBuilder, budgets *BudgetNormalizer, opts ...Option) *DietPlanService {
	s := &DietPlanService{
		generator: generator,
		prompts:   prompts,
		budgets:   budgets,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDietPlanServiceFromConfig wires the prompt and budget settings from cfg
func NewDietPlanServiceFromConfig(cfg *config.Config, generator llm.Generator, opts ...Option) *DietPlanService {
	budgets := NewBudgetNormalizer(BudgetConfig{
		Currency: cfg.BudgetCurrency,
		Low:      cfg.BudgetLow,
		Medium:   cfg.BudgetMedium,
		High:     cfg.BudgetHigh,
	})
	return NewDietPlanService(generator, NewPromptBuilder(cfg.PromptCuisine, cfg.PromptWordLimit), budgets, opts...)
}

// GeneratePlan validates req, computes BMI and budget, calls the model once
// and returns the sanitized reply. Errors are either ErrInvalidRequest
// wrappers or whatever the generator returned, which is an *llm.Error for
// the built-in generators.
func (s *DietPlanService) GeneratePlan(ctx context.Context, req *types.DietRequest) (*types.DietPlanResult, error) {
	logger := zerolog.Ctx(ctx)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	bmi, err := CalculateBMI(req.HeightCM, req.WeightKG)
	if err != nil {
		return nil, err
	}
	budget := s.budgets.Normalize(req.Budget)
	prompt := s.prompts.Build(req, bmi, budget)

	start := time.Now()
	completion, err := s.generator.Generate(ctx, prompt)
	latency := time.Since(start)
	if err != nil {
		logger.Error().Err(err).Dur("latency", latency).Msg("diet plan generation failed")
		return nil, err
	}
	logger.Info().
		Str("provider", completion.Provider).
		Str("model", completion.Model).
		Dur("latency", latency).
		Msg("diet plan generated")

	result := &types.DietPlanResult{
		BMI:      bmi,
		Budget:   budget,
		Response: SanitizeResponse(completion.Text),
	}

	s.record(ctx, req, result, completion)
	return result, nil
}

// recordTimeout bounds saving and archiving once the plan exists
const recordTimeout = 10 * time.Second

// record stores and archives a successful plan. Failures are logged only so
// the caller still gets the generated plan. It outlives a cancelled request
// context.
func (s *DietPlanService) record(ctx context.Context, req *types.DietRequest, result *types.DietPlanResult, completion llm.Completion) {
	if s.history == nil && s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	rec := &models.DietPlanRecord{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		Age:         req.Age,
		HeightCM:    req.HeightCM,
		WeightKG:    req.WeightKG,
		DietGoal:    req.DietGoal,
		Allergies:   req.Allergies,
		BudgetInput: req.Budget,
		Budget:      result.Budget,
		BMI:         result.BMI,
		Response:    result.Response,
		Model:       completion.Model,
		Provider:    completion.Provider,
	}

	if s.history != nil {
		if err := s.history.Save(ctx, rec); err != nil {
			logger.Warn().Err(err).Msg("failed to store diet plan")
		} else {
			result.ID = rec.ID.String()
		}
	}

	if s.archive != nil {
		if err := s.archive.Store(ctx, rec); err != nil {
			logger.Warn().Err(err).Str("plan_id", rec.ID.String()).Msg("failed to archive diet plan")
		}
	}
}

func validateRequest(req *types.DietRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidRequest)
	}
	if req.Age <= 0 {
		return fmt.Errorf("%w: age must be positive", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.DietGoal) == "" {
		return fmt.Errorf("%w: diet_goal is required", ErrInvalidRequest)
	}
	return nil
}
