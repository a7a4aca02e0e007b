package grading

import "sort"

// DeepEqual structurally compares two normalized answer values. Unordered
// collections (selection index sets, match maps) compare order-insensitively;
// sequences (ordered item ids, blank/dropdown slots) compare positionally.
// Canonical key structs are handled explicitly, everything else falls back to
// a JSON-value comparison with numeric coercion.
func DeepEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case *SingleChoiceKey:
		bv, ok := b.(*SingleChoiceKey)
		return ok && av != nil && bv != nil && av.SelectedOptionIndex == bv.SelectedOptionIndex
	case *MultipleChoiceKey:
		bv, ok := b.(*MultipleChoiceKey)
		return ok && av != nil && bv != nil && equalIntSets(av.SelectedOptionIndices, bv.SelectedOptionIndices)
	case *TrueFalseKey:
		bv, ok := b.(*TrueFalseKey)
		return ok && av != nil && bv != nil && av.SelectedAnswer == bv.SelectedAnswer
	case *NumericalKey:
		bv, ok := b.(*NumericalKey)
		return ok && av != nil && bv != nil && av.Answer == bv.Answer
	case *ShortAnswerKey:
		bv, ok := b.(*ShortAnswerKey)
		return ok && av != nil && bv != nil && av.Answer == bv.Answer
	case *FillBlankKey:
		bv, ok := b.(*FillBlankKey)
		if !ok || av == nil || bv == nil || len(av.Answers) != len(bv.Answers) {
			return false
		}
		for i := range av.Answers {
			if av.Answers[i] != bv.Answers[i] {
				return false
			}
		}
		return true
	case *MatchingKey:
		bv, ok := b.(*MatchingKey)
		return ok && av != nil && bv != nil && equalStringMaps(av.Matches, bv.Matches)
	case *OrderingKey:
		bv, ok := b.(*OrderingKey)
		return ok && av != nil && bv != nil && equalStringSlices(av.OrderedItemIDs, bv.OrderedItemIDs)
	case *DropdownKey:
		bv, ok := b.(*DropdownKey)
		if !ok || av == nil || bv == nil || len(av.Selections) != len(bv.Selections) {
			return false
		}
		for i := range av.Selections {
			if av.Selections[i] != bv.Selections[i] {
				return false
			}
		}
		return true
	case *CodingKey:
		bv, ok := b.(*CodingKey)
		return ok && av != nil && bv != nil && av.Code == bv.Code
	}
	return jsonValueEqual(a, b)
}

func equalIntSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStringMaps(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func jsonValueEqual(a, b interface{}) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonValueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, ok := bv[k]
			if !ok || !jsonValueEqual(v, bval) {
				return false
			}
		}
		return true
	}
	return false
}
