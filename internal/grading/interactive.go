package grading

import (
	"fmt"
	"math"
	"strings"
)

// Interactive family: matching, ordering and dropdown.

func gradeMatching(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*MatchingKey)
	if !ok || correct == nil || len(correct.Matches) == 0 {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with matches"
		return res, gradeMeta{}
	}
	matches, ok := asStringMap(m["matches"])
	if !ok {
		res.Feedback = "Invalid answer format: matches must map left ids to right ids"
		return res, gradeMeta{}
	}

	correctPairs := 0
	breakdown := make([]string, 0, len(correct.Matches))
	for leftID, rightID := range correct.Matches {
		if matches[leftID] == rightID {
			correctPairs++
			breakdown = append(breakdown, fmt.Sprintf("pair %s: correct", leftID))
		} else {
			breakdown = append(breakdown, fmt.Sprintf("pair %s: incorrect", leftID))
		}
	}

	res.PointsEarned = math.Round(float64(correctPairs) / float64(len(correct.Matches)) * q.Points)
	res.IsCorrect = correctPairs == len(correct.Matches)
	if res.IsCorrect {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = fmt.Sprintf("%d of %d pairs matched correctly.", correctPairs, len(correct.Matches))
	}
	return res, gradeMeta{breakdown: breakdown}
}

// gradeOrdering compares positionally: the student's id at position i must
// equal the correct id at position i. This is not a subsequence match.
func gradeOrdering(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*OrderingKey)
	if !ok || correct == nil || len(correct.OrderedItemIDs) == 0 {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with ordered_item_ids"
		return res, gradeMeta{}
	}
	ordered, ok := asStringSlice(m["ordered_item_ids"])
	if !ok {
		res.Feedback = "Invalid answer format: ordered_item_ids must be an array of strings"
		return res, gradeMeta{}
	}

	correctPositions := 0
	for i, id := range correct.OrderedItemIDs {
		if i < len(ordered) && ordered[i] == id {
			correctPositions++
		}
	}

	total := len(correct.OrderedItemIDs)
	// Extra trailing items count against the denominator, so a padded
	// answer cannot earn full points.
	denom := total
	if len(ordered) > total {
		denom = len(ordered)
	}
	res.PointsEarned = math.Round(float64(correctPositions) / float64(denom) * q.Points)
	res.IsCorrect = correctPositions == total && len(ordered) == total
	if res.IsCorrect {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = fmt.Sprintf("%d of %d items in the correct position.", correctPositions, total)
	}
	return res, gradeMeta{}
}

func gradeDropdown(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*DropdownKey)
	if !ok || correct == nil || len(correct.Selections) == 0 {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with selections"
		return res, gradeMeta{}
	}
	entries, ok := asSlice(m["selections"])
	if !ok {
		res.Feedback = "Invalid answer format: selections must be an array"
		return res, gradeMeta{}
	}

	submitted := make(map[int]string, len(entries))
	for _, entry := range entries {
		em, ok := asMap(entry)
		if !ok {
			res.Feedback = "Invalid answer format: each selection needs dropdown_index and selected_option"
			return res, gradeMeta{}
		}
		idx, okIdx := asInt(em["dropdown_index"])
		opt, okOpt := asString(em["selected_option"])
		if !okIdx || !okOpt {
			res.Feedback = "Invalid answer format: each selection needs dropdown_index and selected_option"
			return res, gradeMeta{}
		}
		submitted[idx] = opt
	}

	correctSlots := 0
	for _, sel := range correct.Selections {
		if opt, ok := submitted[sel.DropdownIndex]; ok && strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(sel.SelectedOption)) {
			correctSlots++
		}
	}

	total := len(correct.Selections)
	res.PointsEarned = math.Round(float64(correctSlots) / float64(total) * q.Points)
	res.IsCorrect = correctSlots == total
	if res.IsCorrect {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = fmt.Sprintf("%d of %d selections correct.", correctSlots, total)
	}
	return res, gradeMeta{}
}
