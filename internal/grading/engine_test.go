package grading

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

// grade runs a question through a default engine with the answer given as a
// raw JSON document, the way the service layer feeds stored submissions.
func grade(t *testing.T, q *QuestionRecord, answer string) *GradingResult {
	t.Helper()
	e := NewEngine(nil, nil)
	res, err := e.GradeQuestion(context.Background(), q, json.RawMessage(answer))
	if err != nil {
		t.Fatalf("GradeQuestion returned error: %v", err)
	}
	return res
}

func assertScore(t *testing.T, got *GradingResult, wantCorrect bool, wantPoints float64) {
	t.Helper()
	if got.IsCorrect != wantCorrect {
		t.Errorf("IsCorrect = %v, want %v (feedback: %s)", got.IsCorrect, wantCorrect, got.Feedback)
	}
	if math.Abs(got.PointsEarned-wantPoints) > 1e-9 {
		t.Errorf("PointsEarned = %v, want %v (feedback: %s)", got.PointsEarned, wantPoints, got.Feedback)
	}
}

func TestGradeQuestion_UnknownType(t *testing.T) {
	e := NewEngine(nil, nil)
	_, err := e.GradeQuestion(context.Background(), &QuestionRecord{Type: "essay_v2", Points: 5}, json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("err = %v, want ErrUnknownQuestionType", err)
	}
}

func TestGradeQuestion_DoubleEncodedAnswer(t *testing.T) {
	q := &QuestionRecord{
		Type:         SingleChoice,
		Points:       5,
		QuestionData: map[string]interface{}{"correct_option_index": 2},
	}

	// The client stringified the JSON payload before submitting it.
	doubleEncoded, _ := json.Marshal(`{"selected_option_index": 2}`)
	res := grade(t, q, string(doubleEncoded))
	assertScore(t, res, true, 5)
}

func TestGradeQuestion_PercentageRounding(t *testing.T) {
	q := &QuestionRecord{
		Type:   MultipleChoice,
		Points: 15,
		QuestionData: map[string]interface{}{
			"correct_option_indices": []interface{}{0, 1, 2},
		},
	}

	res := grade(t, q, `{"selected_option_indices": [0, 1]}`)
	assertScore(t, res, false, 10)
	if res.Percentage != 66.67 {
		t.Errorf("Percentage = %v, want 66.67", res.Percentage)
	}
}

func TestGradeQuestion_MalformedAnswerNeverErrors(t *testing.T) {
	types := []struct {
		qt QuestionType
		qd map[string]interface{}
	}{
		{SingleChoice, map[string]interface{}{"correct_option_index": 0}},
		{MultipleChoice, map[string]interface{}{"correct_option_indices": []interface{}{0}}},
		{TrueFalse, map[string]interface{}{"correct_answer": true}},
		{Numerical, map[string]interface{}{"correct_answer": 1.0}},
		{FillBlank, map[string]interface{}{"acceptable_answers": []interface{}{"x"}}},
		{ShortAnswer, map[string]interface{}{"keywords": []interface{}{"x"}}},
		{Matching, map[string]interface{}{"correct_matches": map[string]interface{}{"l": "r"}}},
		{Ordering, map[string]interface{}{"items": []interface{}{map[string]interface{}{"id": "a", "order": 0}}}},
		{Coding, map[string]interface{}{"test_cases": []interface{}{map[string]interface{}{"input": "", "expected_output": ""}}}},
	}

	for _, tc := range types {
		t.Run(string(tc.qt), func(t *testing.T) {
			q := &QuestionRecord{Type: tc.qt, Points: 10, QuestionData: tc.qd}
			res := grade(t, q, `"not even an object"`)
			assertScore(t, res, false, 0)
			if res.Feedback == "" {
				t.Error("expected explanatory feedback for malformed answer")
			}
		})
	}
}

func TestGradeQuestion_MissingKeyIsConfigError(t *testing.T) {
	q := &QuestionRecord{Type: SingleChoice, Points: 10, QuestionData: map[string]interface{}{}}
	res := grade(t, q, `{"selected_option_index": 1}`)
	assertScore(t, res, false, 0)
	if res.Feedback != feedbackMissingKey {
		t.Errorf("Feedback = %q, want %q", res.Feedback, feedbackMissingKey)
	}
}
