package service

import (
	"fmt"
	"regexp"
	"strings"
)

// BudgetNotSpecified is used when the request carries no budget
const BudgetNotSpecified = "Not specified"

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	underPattern  = regexp.MustCompile(`\bunder\b`)
)

type budgetCategory int

const (
	budgetNone budgetCategory = iota
	budgetLow
	budgetMedium
	budgetHigh
)

var budgetCategories = map[string]budgetCategory{
	"low":       budgetLow,
	"cheap":     budgetLow,
	"basic":     budgetLow,
	"medium":    budgetMedium,
	"moderate":  budgetMedium,
	"high":      budgetHigh,
	"expensive": budgetHigh,
	"premium":   budgetHigh,
}

// BudgetConfig holds the anchors used in normalized budget labels
type BudgetConfig struct {
	Currency string
	Low      int
	Medium   int
	High     int
}

// budgetRule is one row of the normalization table. raw is the input as
// given, lower is its trimmed lower-case form.
type budgetRule struct {
	name  string
	match func(raw, lower string) bool
	apply func(raw, lower string) string
}

// BudgetNormalizer maps a free-form budget onto a label or amount. Rules are
// evaluated top to bottom and the first match wins.
type BudgetNormalizer struct {
	cfg   BudgetConfig
	rules []budgetRule
}

// NewBudgetNormalizer builds the rule table for the given anchors
func NewBudgetNormalizer(cfg BudgetConfig) *BudgetNormalizer {
	n := &BudgetNormalizer{cfg: cfg}
	n.rules = []budgetRule{
		{
			name:  "empty",
			match: func(_, lower string) bool { return lower == "" },
			apply: func(_, _ string) string { return BudgetNotSpecified },
		},
		{
			name:  "category",
			match: func(_, lower string) bool { return categoryOf(lower) != budgetNone },
			apply: func(_, lower string) string { return n.label(categoryOf(lower)) },
		},
		{
			name: "under",
			match: func(_, lower string) bool {
				return underPattern.MatchString(lower) && numberPattern.MatchString(lower)
			},
			apply: func(_, lower string) string {
				return fmt.Sprintf("Under %s %s", numberPattern.FindString(lower), n.cfg.Currency)
			},
		},
		{
			name:  "amount",
			match: func(_, lower string) bool { return numberPattern.MatchString(lower) },
			apply: func(_, lower string) string {
				return fmt.Sprintf("%s %s", numberPattern.FindString(lower), n.cfg.Currency)
			},
		},
		{
			name:  "passthrough",
			match: func(_, _ string) bool { return true },
			apply: func(raw, _ string) string { return raw },
		},
	}
	return n
}

// Normalize resolves budget through the rule table. A nil budget is treated
// as empty.
func (n *BudgetNormalizer) Normalize(budget *string) string {
	raw := ""
	if budget != nil {
		raw = *budget
	}
	lower := strings.ToLower(strings.TrimSpace(raw))

	for _, rule := range n.rules {
		if rule.match(raw, lower) {
			return rule.apply(raw, lower)
		}
	}
	return raw
}

func (n *BudgetNormalizer) label(c budgetCategory) string {
	switch c {
	case budgetLow:
		return fmt.Sprintf("Low (around %d %s per day)", n.cfg.Low, n.cfg.Currency)
	case budgetMedium:
		return fmt.Sprintf("Medium (around %d %s per day)", n.cfg.Medium, n.cfg.Currency)
	case budgetHigh:
		return fmt.Sprintf("High (around %d %s per day)", n.cfg.High, n.cfg.Currency)
	default:
		return BudgetNotSpecified
	}
}

// categoryOf matches the whole string, or its leading word, against the
// category words
func categoryOf(lower string) budgetCategory {
	if c, ok := budgetCategories[lower]; ok {
		return c
	}
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return budgetNone
	}
	if c, ok := budgetCategories[strings.TrimRight(fields[0], ",.;:!")]; ok {
		return c
	}
	return budgetNone
}
