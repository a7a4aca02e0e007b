package grading

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeAnswer_Unwrapping(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want interface{}
	}{
		{
			name: "raw json message decoded",
			raw:  json.RawMessage(`{"answer": 1}`),
			want: map[string]interface{}{"answer": 1.0},
		},
		{
			name: "double-encoded object unwrapped",
			raw:  json.RawMessage(`"{\"answer\": 1}"`),
			want: map[string]interface{}{"answer": 1.0},
		},
		{
			name: "plain text string kept verbatim",
			raw:  "true",
			want: "true",
		},
		{
			name: "json-looking string decoded",
			raw:  `[1, 2]`,
			want: []interface{}{1.0, 2.0},
		},
		{
			name: "unparsable json-looking string kept",
			raw:  `{"broken":`,
			want: `{"broken":`,
		},
		{
			name: "native map passes through",
			raw:  map[string]interface{}{"k": "v"},
			want: map[string]interface{}{"k": "v"},
		},
		{
			name: "nil stays nil",
			raw:  nil,
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAnswer(tc.raw, ShortAnswer)
			if got.Type != ShortAnswer {
				t.Errorf("Type = %q, want short_answer", got.Type)
			}
			if !reflect.DeepEqual(got.Data, tc.want) {
				t.Errorf("Data = %#v, want %#v", got.Data, tc.want)
			}
		})
	}
}

func TestNormalizeAnswer_Idempotent(t *testing.T) {
	once := NormalizeAnswer(json.RawMessage(`{"selected_option_index": 3}`), SingleChoice)
	twice := NormalizeAnswer(once.Data, SingleChoice)
	if !reflect.DeepEqual(once.Data, twice.Data) {
		t.Errorf("second pass changed data: %#v vs %#v", once.Data, twice.Data)
	}
}
