package grading

import "testing"

func TestGradeMatching(t *testing.T) {
	qd := map[string]interface{}{
		"correct_matches": map[string]interface{}{
			"l1": "r3",
			"l2": "r1",
			"l3": "r2",
		},
	}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
		wantPoints  float64
	}{
		{
			name:        "all pairs matched",
			answer:      `{"matches": {"l1": "r3", "l2": "r1", "l3": "r2"}}`,
			wantCorrect: true,
			wantPoints:  6,
		},
		{
			name:       "one pair swapped",
			answer:     `{"matches": {"l1": "r3", "l2": "r2", "l3": "r1"}}`,
			wantPoints: 2,
		},
		{
			name:       "missing pair counts as wrong",
			answer:     `{"matches": {"l1": "r3"}}`,
			wantPoints: 2,
		},
		{
			name:       "matches not an object",
			answer:     `{"matches": ["r3", "r1"]}`,
			wantPoints: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &QuestionRecord{Type: Matching, Points: 6, QuestionData: qd}
			assertScore(t, grade(t, q, tc.answer), tc.wantCorrect, tc.wantPoints)
		})
	}
}

func TestGradeOrdering(t *testing.T) {
	qd := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"id": "c", "order": 2},
			map[string]interface{}{"id": "a", "order": 0},
			map[string]interface{}{"id": "b", "order": 1},
		},
	}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
		wantPoints  float64
	}{
		{
			name:        "correct order derived from item order fields",
			answer:      `{"ordered_item_ids": ["a", "b", "c"]}`,
			wantCorrect: true,
			wantPoints:  9,
		},
		{
			name:       "two adjacent items swapped",
			answer:     `{"ordered_item_ids": ["a", "c", "b"]}`,
			wantPoints: 3,
		},
		{
			name:       "right set wrong order",
			answer:     `{"ordered_item_ids": ["c", "a", "b"]}`,
			wantPoints: 0,
		},
		{
			name:       "prefix only is not fully correct",
			answer:     `{"ordered_item_ids": ["a", "b"]}`,
			wantPoints: 6,
		},
		{
			name:       "extra trailing items dilute the score",
			answer:     `{"ordered_item_ids": ["a", "b", "c", "d"]}`,
			wantPoints: 7,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &QuestionRecord{Type: Ordering, Points: 9, QuestionData: qd}
			assertScore(t, grade(t, q, tc.answer), tc.wantCorrect, tc.wantPoints)
		})
	}
}

func TestGradeOrdering_ExplicitKeyWins(t *testing.T) {
	q := &QuestionRecord{
		Type:   Ordering,
		Points: 4,
		QuestionData: map[string]interface{}{
			"items": []interface{}{
				map[string]interface{}{"id": "x", "order": 0},
				map[string]interface{}{"id": "y", "order": 1},
			},
		},
		CorrectAnswer: map[string]interface{}{
			"ordered_item_ids": []interface{}{"y", "x"},
		},
	}

	res := grade(t, q, `{"ordered_item_ids": ["y", "x"]}`)
	assertScore(t, res, true, 4)
}

func TestGradeDropdown(t *testing.T) {
	key := []interface{}{"cat", "dog"}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
		wantPoints  float64
	}{
		{
			name:        "both slots correct",
			answer:      `{"selections": [{"dropdown_index": 0, "selected_option": "cat"}, {"dropdown_index": 1, "selected_option": "dog"}]}`,
			wantCorrect: true,
			wantPoints:  8,
		},
		{
			name:        "option casing ignored",
			answer:      `{"selections": [{"dropdown_index": 0, "selected_option": "CAT"}, {"dropdown_index": 1, "selected_option": "Dog"}]}`,
			wantCorrect: true,
			wantPoints:  8,
		},
		{
			name:       "one slot wrong",
			answer:     `{"selections": [{"dropdown_index": 0, "selected_option": "cat"}, {"dropdown_index": 1, "selected_option": "cat"}]}`,
			wantPoints: 4,
		},
		{
			name:       "slot answered out of range",
			answer:     `{"selections": [{"dropdown_index": 5, "selected_option": "cat"}]}`,
			wantPoints: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &QuestionRecord{Type: Dropdown, Points: 8, CorrectAnswer: key}
			assertScore(t, grade(t, q, tc.answer), tc.wantCorrect, tc.wantPoints)
		})
	}
}
