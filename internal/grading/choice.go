package grading

import (
	"fmt"
	"math"
)

// Choice family: single_choice, true_false and multiple_choice.

func gradeSingleChoice(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*SingleChoiceKey)
	if !ok || correct == nil {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with selected_option_index"
		return res, gradeMeta{}
	}
	selected, ok := asInt(m["selected_option_index"])
	if !ok {
		res.Feedback = "Invalid answer format: selected_option_index must be a number"
		return res, gradeMeta{}
	}

	if DeepEqual(&SingleChoiceKey{SelectedOptionIndex: selected}, correct) {
		res.IsCorrect = true
		res.PointsEarned = q.Points
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = feedbackIncorrect
	}
	return res, gradeMeta{}
}

func gradeTrueFalse(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*TrueFalseKey)
	if !ok || correct == nil {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with selected_answer"
		return res, gradeMeta{}
	}
	selected, ok := asBool(m["selected_answer"])
	if !ok {
		res.Feedback = "Invalid answer format: selected_answer must be a boolean"
		return res, gradeMeta{}
	}

	if selected == correct.SelectedAnswer {
		res.IsCorrect = true
		res.PointsEarned = q.Points
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = feedbackIncorrect
	}
	return res, gradeMeta{}
}

// gradeMultipleChoice awards partial credit for the correct selections the
// student made. Extra wrong selections are not penalized here; that is the
// config layer's penalty_per_wrong_selection, fed through meta.
func gradeMultipleChoice(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*MultipleChoiceKey)
	if !ok || correct == nil || len(correct.SelectedOptionIndices) == 0 {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with selected_option_indices"
		return res, gradeMeta{}
	}
	selected, ok := asIntSlice(m["selected_option_indices"])
	if !ok {
		res.Feedback = "Invalid answer format: selected_option_indices must be an array of numbers"
		return res, gradeMeta{}
	}

	correctSet := make(map[int]bool, len(correct.SelectedOptionIndices))
	for _, idx := range correct.SelectedOptionIndices {
		correctSet[idx] = true
	}

	hits := 0
	wrong := 0
	for _, idx := range selected {
		if correctSet[idx] {
			hits++
		} else {
			wrong++
		}
	}
	meta := gradeMeta{wrongSelections: wrong}

	if DeepEqual(&MultipleChoiceKey{SelectedOptionIndices: selected}, correct) {
		res.IsCorrect = true
		res.PointsEarned = q.Points
		res.Feedback = feedbackCorrect
		return res, meta
	}

	res.PointsEarned = math.Round(float64(hits) / float64(len(correct.SelectedOptionIndices)) * q.Points)
	res.Feedback = fmt.Sprintf("Partially correct: %d of %d correct options selected.", hits, len(correct.SelectedOptionIndices))
	return res, meta
}
