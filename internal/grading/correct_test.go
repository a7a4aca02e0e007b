package grading

import "testing"

func TestNormalizeCorrectAnswer_SingleChoicePrecedence(t *testing.T) {
	tests := []struct {
		name string
		qd   map[string]interface{}
		ca   interface{}
		want int
		none bool
	}{
		{
			name: "correct_option_index wins over everything",
			qd: map[string]interface{}{
				"correct_option_index": 1,
				"correct_answer":       3,
			},
			ca:   2,
			want: 1,
		},
		{
			name: "correct_answer number in question data",
			qd:   map[string]interface{}{"correct_answer": 3.0},
			want: 3,
		},
		{
			name: "nested correct_answer object",
			qd: map[string]interface{}{
				"correct_answer": map[string]interface{}{"selected_option_index": 4.0},
			},
			want: 4,
		},
		{
			name: "legacy column plain number",
			qd:   map[string]interface{}{},
			ca:   2.0,
			want: 2,
		},
		{
			name: "legacy column object",
			qd:   map[string]interface{}{},
			ca:   map[string]interface{}{"correct_option_index": 5.0},
			want: 5,
		},
		{
			name: "nothing usable",
			qd:   map[string]interface{}{"correct_answer": "not a number"},
			none: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &QuestionRecord{Type: SingleChoice, QuestionData: tc.qd, CorrectAnswer: tc.ca}
			out := NormalizeCorrectAnswer(q)
			key, ok := out.Data.(*SingleChoiceKey)
			if tc.none {
				if out.Data != nil {
					t.Fatalf("Data = %+v, want nil", out.Data)
				}
				return
			}
			if !ok || key == nil {
				t.Fatalf("Data = %+v, want *SingleChoiceKey", out.Data)
			}
			if key.SelectedOptionIndex != tc.want {
				t.Errorf("SelectedOptionIndex = %d, want %d", key.SelectedOptionIndex, tc.want)
			}
		})
	}
}

func TestNormalizeCorrectAnswer_MultipleChoiceLegacyColumn(t *testing.T) {
	q := &QuestionRecord{
		Type:          MultipleChoice,
		QuestionData:  map[string]interface{}{},
		CorrectAnswer: []interface{}{0.0, 2.0},
	}
	key, ok := NormalizeCorrectAnswer(q).Data.(*MultipleChoiceKey)
	if !ok || len(key.SelectedOptionIndices) != 2 {
		t.Fatalf("Data = %+v, want two indices", key)
	}
}

func TestNormalizeCorrectAnswer_TrueFalseNestedAnswer(t *testing.T) {
	q := &QuestionRecord{
		Type:          TrueFalse,
		QuestionData:  map[string]interface{}{},
		CorrectAnswer: map[string]interface{}{"answer": false},
	}
	key, ok := NormalizeCorrectAnswer(q).Data.(*TrueFalseKey)
	if !ok {
		t.Fatalf("Data is not *TrueFalseKey")
	}
	if key.SelectedAnswer != false {
		t.Errorf("SelectedAnswer = %v, want false", key.SelectedAnswer)
	}
}

func TestNormalizeCorrectAnswer_FillBlankShapes(t *testing.T) {
	q := &QuestionRecord{
		Type: FillBlank,
		QuestionData: map[string]interface{}{
			"acceptable_answers": []interface{}{
				"alpha",
				[]interface{}{"beta", "b"},
				map[string]interface{}{"blank_index": 5, "answers": []interface{}{"gamma"}},
			},
		},
	}
	key, ok := NormalizeCorrectAnswer(q).Data.(*FillBlankKey)
	if !ok || len(key.Answers) != 3 {
		t.Fatalf("Data = %+v, want 3 blanks", key)
	}
	want := []BlankAnswer{
		{BlankIndex: 0, Answer: "alpha"},
		{BlankIndex: 1, Answer: "beta"},
		{BlankIndex: 5, Answer: "gamma"},
	}
	for i, w := range want {
		if key.Answers[i] != w {
			t.Errorf("Answers[%d] = %+v, want %+v", i, key.Answers[i], w)
		}
	}
}

func TestNormalizeCorrectAnswer_OrderingFromItems(t *testing.T) {
	q := &QuestionRecord{
		Type: Ordering,
		QuestionData: map[string]interface{}{
			"items": []interface{}{
				map[string]interface{}{"id": "last", "order": 9},
				map[string]interface{}{"id": "first", "order": 1},
			},
		},
	}
	key, ok := NormalizeCorrectAnswer(q).Data.(*OrderingKey)
	if !ok {
		t.Fatalf("Data is not *OrderingKey")
	}
	if key.OrderedItemIDs[0] != "first" || key.OrderedItemIDs[1] != "last" {
		t.Errorf("OrderedItemIDs = %v, want [first last]", key.OrderedItemIDs)
	}
}

func TestNormalizeCorrectAnswer_DropdownPositional(t *testing.T) {
	q := &QuestionRecord{
		Type:          Dropdown,
		CorrectAnswer: []interface{}{"red", "blue"},
	}
	key, ok := NormalizeCorrectAnswer(q).Data.(*DropdownKey)
	if !ok || len(key.Selections) != 2 {
		t.Fatalf("Data = %+v, want 2 selections", key)
	}
	if key.Selections[1] != (DropdownSelection{DropdownIndex: 1, SelectedOption: "blue"}) {
		t.Errorf("Selections[1] = %+v", key.Selections[1])
	}
}
