package grading

import (
	"encoding/json"
	"fmt"
	"math"
)

type GradingStrategy string

const (
	AllOrNothing    GradingStrategy = "all_or_nothing"
	PartialCredit   GradingStrategy = "partial_credit"
	PenaltyBased    GradingStrategy = "penalty_based"
	WeightedPartial GradingStrategy = "weighted_partial"
)

// GradingConfig adjusts a base grader's result. Zero values mean "no
// adjustment"; AllowNegativeScore only has effect together with
// PenaltyPerWrongSelection on multiple choice.
type GradingConfig struct {
	Strategy                 GradingStrategy `json:"strategy"`
	MinimumScorePercentage   float64         `json:"minimum_score_percentage"`
	PenaltyPerWrongSelection float64         `json:"penalty_per_wrong_selection"`
	AllowNegativeScore       bool            `json:"allow_negative_score"`
	ExplanationBonus         float64         `json:"explanation_bonus"`
	CompilationPenalty       float64         `json:"compilation_penalty"`
	RuntimePenalty           float64         `json:"runtime_penalty"`
	MemoryPenalty            float64         `json:"memory_penalty"`
}

// ConfigRegistry holds the per-type default GradingConfig. It is injected
// into the engine at construction so tests can substitute alternate configs
// without touching shared state.
type ConfigRegistry struct {
	byType map[QuestionType]GradingConfig
}

func DefaultRegistry() *ConfigRegistry {
	return &ConfigRegistry{byType: map[QuestionType]GradingConfig{
		SingleChoice:   {Strategy: AllOrNothing},
		TrueFalse:      {Strategy: AllOrNothing},
		MultipleChoice: {Strategy: PartialCredit},
		Numerical:      {Strategy: AllOrNothing},
		FillBlank:      {Strategy: PartialCredit},
		ShortAnswer:    {Strategy: PartialCredit},
		Matching:       {Strategy: PartialCredit},
		Ordering:       {Strategy: PartialCredit},
		Dropdown:       {Strategy: PartialCredit},
		Coding:         {Strategy: WeightedPartial},
	}}
}

func (r *ConfigRegistry) For(t QuestionType) GradingConfig {
	if cfg, ok := r.byType[t]; ok {
		return cfg
	}
	return GradingConfig{Strategy: AllOrNothing}
}

func (r *ConfigRegistry) Set(t QuestionType, cfg GradingConfig) {
	r.byType[t] = cfg
}

// questionConfig returns the effective config for a question: the registry
// default, overridden by an inline grading_config in question_data when the
// author configured one.
func (e *Engine) questionConfig(q *QuestionRecord) GradingConfig {
	cfg := e.configs.For(q.Type)
	raw, ok := q.QuestionData["grading_config"]
	if !ok {
		return cfg
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return cfg
	}
	override := cfg
	if err := json.Unmarshal(encoded, &override); err != nil {
		return cfg
	}
	if override.Strategy == "" {
		override.Strategy = cfg.Strategy
	}
	return override
}

// applyConfig layers strategy, penalties, bonuses, the minimum-score floor
// and the final clamp on top of the base grader's result, then recomputes
// the percentage.
func applyConfig(res *GradingResult, meta gradeMeta, cfg GradingConfig, q *QuestionRecord) {
	detail := &DetailedFeedback{StrategyUsed: cfg.Strategy, Breakdown: meta.breakdown}

	if cfg.Strategy == AllOrNothing && !res.IsCorrect {
		res.PointsEarned = 0
	}

	if cfg.PenaltyPerWrongSelection > 0 && meta.wrongSelections > 0 {
		penalty := cfg.PenaltyPerWrongSelection * float64(meta.wrongSelections)
		res.PointsEarned -= penalty
		detail.PenaltiesApplied = append(detail.PenaltiesApplied,
			fmt.Sprintf("wrong selections: -%.1f (%d x %.1f)", penalty, meta.wrongSelections, cfg.PenaltyPerWrongSelection))
	}

	if cfg.CompilationPenalty > 0 && meta.hadCompilationError {
		res.PointsEarned -= cfg.CompilationPenalty
		detail.PenaltiesApplied = append(detail.PenaltiesApplied, fmt.Sprintf("compilation error: -%.1f", cfg.CompilationPenalty))
	}
	if cfg.RuntimePenalty > 0 && meta.hadTimeout {
		res.PointsEarned -= cfg.RuntimePenalty
		detail.PenaltiesApplied = append(detail.PenaltiesApplied, fmt.Sprintf("runtime/timeout: -%.1f", cfg.RuntimePenalty))
	}
	if cfg.MemoryPenalty > 0 && meta.hadMemoryError {
		res.PointsEarned -= cfg.MemoryPenalty
		detail.PenaltiesApplied = append(detail.PenaltiesApplied, fmt.Sprintf("memory limit: -%.1f", cfg.MemoryPenalty))
	}

	if cfg.ExplanationBonus > 0 && res.IsCorrect && (q.Type == SingleChoice || q.Type == TrueFalse) {
		res.PointsEarned += cfg.ExplanationBonus
		detail.BonusesEarned = append(detail.BonusesEarned, fmt.Sprintf("explanation bonus: +%.1f", cfg.ExplanationBonus))
	}

	floor := 0.0
	if cfg.MinimumScorePercentage > 0 {
		floor = cfg.MinimumScorePercentage / 100 * res.MaxPoints
	}
	if res.PointsEarned < floor && !(cfg.AllowNegativeScore && q.Type == MultipleChoice) {
		res.PointsEarned = floor
	}
	if res.PointsEarned > res.MaxPoints {
		res.PointsEarned = res.MaxPoints
	}

	if res.MaxPoints > 0 {
		res.Percentage = res.PointsEarned / res.MaxPoints * 100
	} else {
		res.Percentage = 0
	}
	res.Percentage = math.Round(res.Percentage*100) / 100
	res.DetailedFeedback = detail
}
