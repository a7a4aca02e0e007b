package grading

import (
	"context"
	"fmt"
)

// gradeMeta carries structured signals from a base grader to the config
// layer, so penalties never have to be re-derived from feedback text.
type gradeMeta struct {
	wrongSelections     int
	hadCompilationError bool
	hadTimeout          bool
	hadMemoryError      bool
	breakdown           []string
}

// Engine grades one answer at a time. It holds no per-call state, so a
// single Engine is safe to share across goroutines.
type Engine struct {
	executor Executor
	configs  *ConfigRegistry
}

// NewEngine builds an engine. executor may be nil when code execution is
// unavailable; coding questions then grade as a configuration error instead
// of failing at dispatch.
func NewEngine(executor Executor, configs *ConfigRegistry) *Engine {
	if configs == nil {
		configs = DefaultRegistry()
	}
	return &Engine{executor: executor, configs: configs}
}

// GradeQuestion normalizes the submitted answer and the question's correct
// answer, runs the per-type grader and applies the grading configuration.
// Malformed input and missing configuration come back as zero-point results
// with explanatory feedback; only an unknown question type is an error.
func (e *Engine) GradeQuestion(ctx context.Context, q *QuestionRecord, rawAnswer interface{}) (*GradingResult, error) {
	if !q.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, q.Type)
	}

	sub := NormalizeAnswer(rawAnswer, q.Type)
	key := NormalizeCorrectAnswer(q)

	var (
		res  *GradingResult
		meta gradeMeta
	)
	switch q.Type {
	case SingleChoice:
		res, meta = gradeSingleChoice(q, sub, key)
	case MultipleChoice:
		res, meta = gradeMultipleChoice(q, sub, key)
	case TrueFalse:
		res, meta = gradeTrueFalse(q, sub, key)
	case Numerical:
		res, meta = gradeNumerical(q, sub, key)
	case FillBlank:
		res, meta = gradeFillBlank(q, sub, key)
	case ShortAnswer:
		res, meta = gradeShortAnswer(q, sub, key)
	case Matching:
		res, meta = gradeMatching(q, sub, key)
	case Ordering:
		res, meta = gradeOrdering(q, sub, key)
	case Dropdown:
		res, meta = gradeDropdown(q, sub, key)
	case Coding:
		res, meta = e.gradeCoding(ctx, q, sub)
	}

	applyConfig(res, meta, e.questionConfig(q), q)
	return res, nil
}
