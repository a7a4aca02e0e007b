package grading

import "testing"

func TestQuestionConfig_InlineOverride(t *testing.T) {
	e := NewEngine(nil, nil)

	q := &QuestionRecord{
		Type: MultipleChoice,
		QuestionData: map[string]interface{}{
			"grading_config": map[string]interface{}{
				"strategy":                 "all_or_nothing",
				"minimum_score_percentage": 10.0,
			},
		},
	}
	cfg := e.questionConfig(q)
	if cfg.Strategy != AllOrNothing {
		t.Errorf("Strategy = %q, want all_or_nothing", cfg.Strategy)
	}
	if cfg.MinimumScorePercentage != 10 {
		t.Errorf("MinimumScorePercentage = %v, want 10", cfg.MinimumScorePercentage)
	}
}

func TestQuestionConfig_EmptyStrategyKeepsDefault(t *testing.T) {
	e := NewEngine(nil, nil)

	q := &QuestionRecord{
		Type: Coding,
		QuestionData: map[string]interface{}{
			"grading_config": map[string]interface{}{"compilation_penalty": 1.0},
		},
	}
	cfg := e.questionConfig(q)
	if cfg.Strategy != WeightedPartial {
		t.Errorf("Strategy = %q, want weighted_partial", cfg.Strategy)
	}
}

func TestQuestionConfig_MalformedOverrideIgnored(t *testing.T) {
	e := NewEngine(nil, nil)

	q := &QuestionRecord{
		Type: SingleChoice,
		QuestionData: map[string]interface{}{
			"grading_config": "not an object",
		},
	}
	cfg := e.questionConfig(q)
	if cfg.Strategy != AllOrNothing {
		t.Errorf("Strategy = %q, want the single_choice default", cfg.Strategy)
	}
}

func TestApplyConfig_AllOrNothingZeroesPartialScore(t *testing.T) {
	q := &QuestionRecord{
		Type:   MultipleChoice,
		Points: 12,
		QuestionData: map[string]interface{}{
			"correct_option_indices": []interface{}{0, 1, 2},
			"grading_config":         map[string]interface{}{"strategy": "all_or_nothing"},
		},
	}

	res := grade(t, q, `{"selected_option_indices": [0, 1]}`)
	assertScore(t, res, false, 0)
}

func TestApplyConfig_ExplanationBonusClampedToMax(t *testing.T) {
	q := &QuestionRecord{
		Type:   SingleChoice,
		Points: 5,
		QuestionData: map[string]interface{}{
			"correct_option_index": 1,
			"grading_config":       map[string]interface{}{"explanation_bonus": 2.0},
		},
	}

	res := grade(t, q, `{"selected_option_index": 1}`)
	// The bonus is recorded but never pushes a score past the maximum.
	assertScore(t, res, true, 5)
	if res.DetailedFeedback == nil || len(res.DetailedFeedback.BonusesEarned) != 1 {
		t.Fatalf("expected one bonus entry, got %+v", res.DetailedFeedback)
	}
	if res.Percentage != 100 {
		t.Errorf("Percentage = %v, want 100", res.Percentage)
	}
}

func TestApplyConfig_StrategyRecorded(t *testing.T) {
	q := &QuestionRecord{
		Type:         TrueFalse,
		Points:       1,
		QuestionData: map[string]interface{}{"correct_answer": true},
	}

	res := grade(t, q, `{"selected_answer": true}`)
	if res.DetailedFeedback == nil || res.DetailedFeedback.StrategyUsed != AllOrNothing {
		t.Fatalf("DetailedFeedback = %+v, want all_or_nothing strategy", res.DetailedFeedback)
	}
}

func TestRegistry_UnlistedTypeFallsBack(t *testing.T) {
	r := DefaultRegistry()
	cfg := r.For(QuestionType("essay"))
	if cfg.Strategy != AllOrNothing {
		t.Errorf("Strategy = %q, want all_or_nothing fallback", cfg.Strategy)
	}

	r.Set(QuestionType("essay"), GradingConfig{Strategy: PartialCredit})
	if r.For(QuestionType("essay")).Strategy != PartialCredit {
		t.Error("Set did not override the registry entry")
	}
}
