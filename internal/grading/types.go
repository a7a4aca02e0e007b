// Package grading scores submitted answers against a question's configured
// correct answer across the supported question types. All functions are pure
// and safe for concurrent use; only the coding grader reaches out to the
// external execution sandbox.
package grading

import "errors"

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	Numerical      QuestionType = "numerical"
	FillBlank      QuestionType = "fill_blank"
	ShortAnswer    QuestionType = "short_answer"
	Matching       QuestionType = "matching"
	Ordering       QuestionType = "ordering"
	Dropdown       QuestionType = "dropdown"
	Coding         QuestionType = "coding"
)

var allQuestionTypes = map[QuestionType]bool{
	SingleChoice:   true,
	MultipleChoice: true,
	TrueFalse:      true,
	Numerical:      true,
	FillBlank:      true,
	ShortAnswer:    true,
	Matching:       true,
	Ordering:       true,
	Dropdown:       true,
	Coding:         true,
}

func (t QuestionType) Valid() bool {
	return allQuestionTypes[t]
}

// ErrUnknownQuestionType indicates a schema/version mismatch the engine
// cannot guess around; it is the only error GradeQuestion returns.
var ErrUnknownQuestionType = errors.New("unknown question type")

// QuestionRecord is the engine's view of a stored question. QuestionData and
// CorrectAnswer arrive as loosely-typed JSON; both may hold the authoritative
// correct answer depending on which historical code path saved the question.
type QuestionRecord struct {
	Type          QuestionType
	Points        float64
	QuestionData  map[string]interface{}
	CorrectAnswer interface{}
	Explanation   string
}

// GradingResult is the outcome of grading a single answer. PointsEarned is
// clamped into [0, MaxPoints] unless the question's config explicitly allows
// negative scores (multiple choice only).
type GradingResult struct {
	IsCorrect        bool              `json:"is_correct"`
	PointsEarned     float64           `json:"points_earned"`
	MaxPoints        float64           `json:"max_points"`
	Percentage       float64           `json:"percentage"`
	Feedback         string            `json:"feedback"`
	RequiresManual   bool              `json:"requires_manual,omitempty"`
	DetailedFeedback *DetailedFeedback `json:"detailed_feedback,omitempty"`
}

type DetailedFeedback struct {
	StrategyUsed     GradingStrategy `json:"strategy_used"`
	Breakdown        []string        `json:"breakdown,omitempty"`
	PenaltiesApplied []string        `json:"penalties_applied,omitempty"`
	BonusesEarned    []string        `json:"bonuses_earned,omitempty"`
}

// Canonical answer shapes. These are the only shapes ever compared; raw and
// legacy shapes are converted exactly once, at the normalizer boundary.

type SingleChoiceKey struct {
	SelectedOptionIndex int `json:"selected_option_index"`
}

type MultipleChoiceKey struct {
	SelectedOptionIndices []int `json:"selected_option_indices"`
}

type TrueFalseKey struct {
	SelectedAnswer bool `json:"selected_answer"`
}

type NumericalKey struct {
	Answer float64 `json:"answer"`
}

type ShortAnswerKey struct {
	Answer string `json:"answer"`
}

type BlankAnswer struct {
	BlankIndex int    `json:"blank_index"`
	Answer     string `json:"answer"`
}

type FillBlankKey struct {
	Answers []BlankAnswer `json:"answers"`
}

type MatchingKey struct {
	Matches map[string]string `json:"matches"`
}

type OrderingKey struct {
	OrderedItemIDs []string `json:"ordered_item_ids"`
}

type DropdownSelection struct {
	DropdownIndex  int    `json:"dropdown_index"`
	SelectedOption string `json:"selected_option"`
}

type DropdownKey struct {
	Selections []DropdownSelection `json:"selections"`
}

type CodingKey struct {
	Code string `json:"code"`
}

// Feedback texts. Callers distinguish "student wrong" from "question
// misconfigured" by these messages, so keep them stable.
const (
	feedbackCorrect       = "Correct answer."
	feedbackIncorrect     = "Incorrect answer."
	feedbackManualGrading = "Manual grading required"
	feedbackMissingKey    = "Question configuration error: no correct answer available"
)
