package grading

import (
	"fmt"
	"math"
	"strings"
)

// Text/numeric family: numerical, fill_blank and short_answer.

func gradeNumerical(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	correct, ok := key.Data.(*NumericalKey)
	if !ok || correct == nil {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with answer"
		return res, gradeMeta{}
	}
	value, ok := asFloat(m["answer"])
	if !ok {
		res.Feedback = "Invalid answer format: answer must be a number"
		return res, gradeMeta{}
	}

	tolerance := 0.0
	if t, ok := asFloat(q.QuestionData["tolerance"]); ok && t >= 0 {
		tolerance = t
	}
	withinTolerance := math.Abs(value-correct.Answer) <= tolerance

	// An acceptable_range is an additional constraint on top of the
	// tolerance check, not an alternative to it.
	withinRange := true
	if rng, ok := asMap(q.QuestionData["acceptable_range"]); ok {
		if min, ok := asFloat(rng["min"]); ok && value < min {
			withinRange = false
		}
		if max, ok := asFloat(rng["max"]); ok && value > max {
			withinRange = false
		}
	}

	if withinTolerance && withinRange {
		res.IsCorrect = true
		res.PointsEarned = q.Points
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = feedbackIncorrect
	}
	return res, gradeMeta{}
}

// blankSpec is one blank's grading configuration: its acceptable answers and
// case sensitivity, read from question_data.acceptable_answers.
type blankSpec struct {
	acceptable    []string
	caseSensitive bool
}

func parseBlankSpecs(q *QuestionRecord) []blankSpec {
	raw, ok := asSlice(q.QuestionData["acceptable_answers"])
	if !ok || len(raw) == 0 {
		return nil
	}
	specs := make([]blankSpec, 0, len(raw))
	for _, entry := range raw {
		switch e := entry.(type) {
		case string:
			specs = append(specs, blankSpec{acceptable: []string{e}})
		case []interface{}:
			answers, ok := asStringSlice(e)
			if !ok || len(answers) == 0 {
				return nil
			}
			specs = append(specs, blankSpec{acceptable: answers})
		case map[string]interface{}:
			spec := blankSpec{}
			if s, ok := asString(e["answer"]); ok {
				spec.acceptable = []string{s}
			} else if answers, ok := asStringSlice(e["answers"]); ok && len(answers) > 0 {
				spec.acceptable = answers
			} else if answers, ok := asStringSlice(e["acceptable_answers"]); ok && len(answers) > 0 {
				spec.acceptable = answers
			} else {
				return nil
			}
			if cs, ok := asBool(e["case_sensitive"]); ok {
				spec.caseSensitive = cs
			}
			specs = append(specs, spec)
		default:
			return nil
		}
	}
	return specs
}

func (s blankSpec) matches(answer string) bool {
	for _, acceptable := range s.acceptable {
		if s.caseSensitive {
			if strings.TrimSpace(answer) == strings.TrimSpace(acceptable) {
				return true
			}
		} else if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(acceptable)) {
			return true
		}
	}
	return false
}

func gradeFillBlank(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}
	specs := parseBlankSpecs(q)
	if len(specs) == 0 {
		res.Feedback = feedbackMissingKey
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with answers"
		return res, gradeMeta{}
	}
	entries, ok := asSlice(m["answers"])
	if !ok {
		res.Feedback = "Invalid answer format: answers must be an array"
		return res, gradeMeta{}
	}

	submitted := make(map[int]string, len(entries))
	for _, entry := range entries {
		em, ok := asMap(entry)
		if !ok {
			res.Feedback = "Invalid answer format: each answer needs blank_index and answer"
			return res, gradeMeta{}
		}
		idx, okIdx := asInt(em["blank_index"])
		ans, okAns := asString(em["answer"])
		if !okIdx || !okAns {
			res.Feedback = "Invalid answer format: each answer needs blank_index and answer"
			return res, gradeMeta{}
		}
		submitted[idx] = ans
	}

	correctBlanks := 0
	breakdown := make([]string, 0, len(specs))
	for i, spec := range specs {
		answer, answered := submitted[i]
		if answered && spec.matches(answer) {
			correctBlanks++
			breakdown = append(breakdown, fmt.Sprintf("blank %d: correct", i))
		} else {
			breakdown = append(breakdown, fmt.Sprintf("blank %d: incorrect", i))
		}
	}

	res.PointsEarned = math.Round(float64(correctBlanks) / float64(len(specs)) * q.Points)
	res.IsCorrect = correctBlanks == len(specs)
	if res.IsCorrect {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = fmt.Sprintf("%d of %d blanks correct.", correctBlanks, len(specs))
	}
	return res, gradeMeta{breakdown: breakdown}
}

func gradeShortAnswer(q *QuestionRecord, sub NormalizedAnswer, key NormalizedCorrectAnswer) (*GradingResult, gradeMeta) {
	res := &GradingResult{MaxPoints: q.Points}

	keywords, _ := asStringSlice(q.QuestionData["keywords"])
	if len(keywords) == 0 {
		// Without a keyword list the engine never guesses; a human has
		// to review the answer.
		res.Feedback = feedbackManualGrading
		res.RequiresManual = true
		return res, gradeMeta{}
	}

	m, ok := asMap(sub.Data)
	if !ok {
		res.Feedback = "Invalid answer format: expected an object with answer"
		return res, gradeMeta{}
	}
	answer, ok := asString(m["answer"])
	if !ok {
		res.Feedback = "Invalid answer format: answer must be a string"
		return res, gradeMeta{}
	}

	lower := strings.ToLower(answer)
	found := 0
	breakdown := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			found++
			breakdown = append(breakdown, fmt.Sprintf("keyword %q: found", kw))
		} else {
			breakdown = append(breakdown, fmt.Sprintf("keyword %q: missing", kw))
		}
	}

	res.PointsEarned = math.Round(float64(found) / float64(len(keywords)) * q.Points)
	res.IsCorrect = found == len(keywords)
	if res.IsCorrect {
		res.Feedback = feedbackCorrect
	} else {
		res.Feedback = fmt.Sprintf("%d of %d keywords found.", found, len(keywords))
	}
	return res, gradeMeta{breakdown: breakdown}
}
