package grading

import "testing"

func TestDeepEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{
			name: "multiple choice ignores order",
			a:    &MultipleChoiceKey{SelectedOptionIndices: []int{2, 0, 1}},
			b:    &MultipleChoiceKey{SelectedOptionIndices: []int{0, 1, 2}},
			want: true,
		},
		{
			name: "multiple choice differs by element",
			a:    &MultipleChoiceKey{SelectedOptionIndices: []int{0, 1}},
			b:    &MultipleChoiceKey{SelectedOptionIndices: []int{0, 2}},
		},
		{
			name: "ordering is positional",
			a:    &OrderingKey{OrderedItemIDs: []string{"a", "b"}},
			b:    &OrderingKey{OrderedItemIDs: []string{"b", "a"}},
		},
		{
			name: "matching ignores map iteration order",
			a:    &MatchingKey{Matches: map[string]string{"l1": "r1", "l2": "r2"}},
			b:    &MatchingKey{Matches: map[string]string{"l2": "r2", "l1": "r1"}},
			want: true,
		},
		{
			name: "int and float coerce in fallback",
			a:    3,
			b:    3.0,
			want: true,
		},
		{
			name: "numeric string coerces in fallback",
			a:    "3",
			b:    3.0,
			want: true,
		},
		{
			name: "nested json values",
			a:    map[string]interface{}{"x": []interface{}{1.0, "y"}},
			b:    map[string]interface{}{"x": []interface{}{1, "y"}},
			want: true,
		},
		{
			name: "mismatched types",
			a:    &SingleChoiceKey{SelectedOptionIndex: 1},
			b:    &TrueFalseKey{SelectedAnswer: true},
		},
		{
			name: "both nil",
			a:    nil,
			b:    nil,
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeepEqual(tc.a, tc.b); got != tc.want {
				t.Errorf("DeepEqual(%#v, %#v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
