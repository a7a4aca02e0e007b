package grading

import "sort"

// NormalizedCorrectAnswer carries the canonical correct answer for a
// question, or a nil Data when no source field yielded a usable value.
type NormalizedCorrectAnswer struct {
	Type        QuestionType
	Data        interface{}
	Explanation string
}

// NormalizeCorrectAnswer resolves a question's correct answer through the
// per-type precedence chain. The same logical question may have been authored
// through different historical save paths that wrote the answer into
// different fields, so every candidate source is consulted in order; skipping
// the fallbacks silently breaks grading for legacy questions.
func NormalizeCorrectAnswer(q *QuestionRecord) NormalizedCorrectAnswer {
	out := NormalizedCorrectAnswer{Type: q.Type, Explanation: q.Explanation}

	switch q.Type {
	case SingleChoice:
		out.Data = resolveSingleChoiceKey(q)
	case MultipleChoice:
		out.Data = resolveMultipleChoiceKey(q)
	case TrueFalse:
		out.Data = resolveTrueFalseKey(q)
	case Numerical:
		if f, ok := asFloat(q.QuestionData["correct_answer"]); ok {
			out.Data = &NumericalKey{Answer: f}
		}
	case ShortAnswer:
		if s, ok := asString(q.QuestionData["correct_answer"]); ok {
			out.Data = &ShortAnswerKey{Answer: s}
		}
	case FillBlank:
		out.Data = resolveFillBlankKey(q)
	case Matching:
		out.Data = resolveMatchingKey(q)
	case Ordering:
		out.Data = resolveOrderingKey(q)
	case Dropdown:
		out.Data = resolveDropdownKey(q)
	case Coding:
		// Coding is graded by execution, not equality; an expected_code
		// snippet is only rarely present.
		if s, ok := asString(q.QuestionData["expected_code"]); ok {
			out.Data = &CodingKey{Code: s}
		}
	}

	return out
}

type intExtractor func(q *QuestionRecord) (int, bool)

func resolveSingleChoiceKey(q *QuestionRecord) interface{} {
	chain := []intExtractor{
		func(q *QuestionRecord) (int, bool) { return asInt(q.QuestionData["correct_option_index"]) },
		func(q *QuestionRecord) (int, bool) { return asInt(q.QuestionData["correct_answer"]) },
		func(q *QuestionRecord) (int, bool) { return asInt(q.QuestionData["selected_option_index"]) },
		func(q *QuestionRecord) (int, bool) {
			m, ok := asMap(q.QuestionData["correct_answer"])
			if !ok {
				return 0, false
			}
			return asInt(m["selected_option_index"])
		},
		func(q *QuestionRecord) (int, bool) { return asInt(q.CorrectAnswer) },
		func(q *QuestionRecord) (int, bool) {
			m, ok := asMap(q.CorrectAnswer)
			if !ok {
				return 0, false
			}
			if n, ok := asInt(m["selected_option_index"]); ok {
				return n, true
			}
			return asInt(m["correct_option_index"])
		},
	}
	for _, extract := range chain {
		if n, ok := extract(q); ok {
			return &SingleChoiceKey{SelectedOptionIndex: n}
		}
	}
	return nil
}

type intSliceExtractor func(q *QuestionRecord) ([]int, bool)

func resolveMultipleChoiceKey(q *QuestionRecord) interface{} {
	chain := []intSliceExtractor{
		func(q *QuestionRecord) ([]int, bool) { return asIntSlice(q.QuestionData["correct_option_indices"]) },
		func(q *QuestionRecord) ([]int, bool) { return asIntSlice(q.QuestionData["correct_answer"]) },
		func(q *QuestionRecord) ([]int, bool) { return asIntSlice(q.CorrectAnswer) },
		func(q *QuestionRecord) ([]int, bool) {
			m, ok := asMap(q.CorrectAnswer)
			if !ok {
				return nil, false
			}
			if ids, ok := asIntSlice(m["correct_option_indices"]); ok {
				return ids, true
			}
			return asIntSlice(m["selected_option_indices"])
		},
	}
	for _, extract := range chain {
		if ids, ok := extract(q); ok {
			return &MultipleChoiceKey{SelectedOptionIndices: ids}
		}
	}
	return nil
}

type boolExtractor func(q *QuestionRecord) (bool, bool)

func resolveTrueFalseKey(q *QuestionRecord) interface{} {
	chain := []boolExtractor{
		func(q *QuestionRecord) (bool, bool) { return asBool(q.QuestionData["correct_answer"]) },
		func(q *QuestionRecord) (bool, bool) { return asBool(q.CorrectAnswer) },
		func(q *QuestionRecord) (bool, bool) {
			m, ok := asMap(q.CorrectAnswer)
			if !ok {
				return false, false
			}
			if b, ok := asBool(m["answer"]); ok {
				return b, true
			}
			return asBool(m["selected_answer"])
		},
	}
	for _, extract := range chain {
		if b, ok := extract(q); ok {
			return &TrueFalseKey{SelectedAnswer: b}
		}
	}
	return nil
}

// resolveFillBlankKey builds one entry per blank index from
// question_data.acceptable_answers, using the first acceptable answer as the
// canonical one. Entries may be plain strings, answer lists, or objects with
// a blank_index.
func resolveFillBlankKey(q *QuestionRecord) interface{} {
	raw, ok := asSlice(q.QuestionData["acceptable_answers"])
	if !ok || len(raw) == 0 {
		return nil
	}
	key := &FillBlankKey{Answers: make([]BlankAnswer, 0, len(raw))}
	for i, entry := range raw {
		switch e := entry.(type) {
		case string:
			key.Answers = append(key.Answers, BlankAnswer{BlankIndex: i, Answer: e})
		case []interface{}:
			if len(e) == 0 {
				return nil
			}
			s, ok := asString(e[0])
			if !ok {
				return nil
			}
			key.Answers = append(key.Answers, BlankAnswer{BlankIndex: i, Answer: s})
		case map[string]interface{}:
			idx := i
			if n, ok := asInt(e["blank_index"]); ok {
				idx = n
			}
			if s, ok := asString(e["answer"]); ok {
				key.Answers = append(key.Answers, BlankAnswer{BlankIndex: idx, Answer: s})
				continue
			}
			answers, ok := asStringSlice(e["answers"])
			if !ok || len(answers) == 0 {
				return nil
			}
			key.Answers = append(key.Answers, BlankAnswer{BlankIndex: idx, Answer: answers[0]})
		default:
			return nil
		}
	}
	return key
}

func resolveMatchingKey(q *QuestionRecord) interface{} {
	if m, ok := asStringMap(q.QuestionData["correct_matches"]); ok && len(m) > 0 {
		return &MatchingKey{Matches: m}
	}
	if obj, ok := asMap(q.CorrectAnswer); ok {
		if m, ok := asStringMap(obj["mappings"]); ok && len(m) > 0 {
			return &MatchingKey{Matches: m}
		}
	}
	return nil
}

func resolveOrderingKey(q *QuestionRecord) interface{} {
	if obj, ok := asMap(q.CorrectAnswer); ok {
		if ids, ok := asStringSlice(obj["ordered_item_ids"]); ok && len(ids) > 0 {
			return &OrderingKey{OrderedItemIDs: ids}
		}
	}
	// Derive from question_data.items sorted by their order field.
	items, ok := asSlice(q.QuestionData["items"])
	if !ok || len(items) == 0 {
		return nil
	}
	type orderedItem struct {
		id    string
		order int
	}
	parsed := make([]orderedItem, 0, len(items))
	for _, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil
		}
		id, ok := asString(m["id"])
		if !ok {
			return nil
		}
		order, ok := asInt(m["order"])
		if !ok {
			return nil
		}
		parsed = append(parsed, orderedItem{id: id, order: order})
	}
	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].order < parsed[j].order })
	ids := make([]string, len(parsed))
	for i, it := range parsed {
		ids[i] = it.id
	}
	return &OrderingKey{OrderedItemIDs: ids}
}

// resolveDropdownKey reads correct_answer as an array of option strings
// indexed positionally.
func resolveDropdownKey(q *QuestionRecord) interface{} {
	options, ok := asStringSlice(q.CorrectAnswer)
	if !ok {
		if obj, ok2 := asMap(q.CorrectAnswer); ok2 {
			options, ok = asStringSlice(obj["selections"])
		}
	}
	if !ok || len(options) == 0 {
		return nil
	}
	key := &DropdownKey{Selections: make([]DropdownSelection, len(options))}
	for i, opt := range options {
		key.Selections[i] = DropdownSelection{DropdownIndex: i, SelectedOption: opt}
	}
	return key
}
