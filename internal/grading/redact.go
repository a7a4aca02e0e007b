package grading

import "encoding/json"

// answerKeyFields are the question_data fields the correct-answer precedence
// chains read. None of them may reach a test taker.
var answerKeyFields = []string{
	"correct_answer",
	"correct_option_index",
	"correct_option_indices",
	"selected_option_index",
	"acceptable_answers",
	"correct_matches",
	"expected_code",
	"keywords",
	"grading_config",
}

// RedactQuestionData strips every answer-bearing field from a stored
// question_data payload so the question can be shown to a test taker.
// Ordering items lose their order field, coding questions lose hidden test
// cases and all expected outputs. A payload that does not decode as an
// object is dropped entirely rather than passed through.
func RedactQuestionData(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}

	for _, field := range answerKeyFields {
		delete(data, field)
	}

	if items, ok := asSlice(data["items"]); ok {
		for _, it := range items {
			if m, ok := asMap(it); ok {
				delete(m, "order")
			}
		}
	}

	if cases, ok := asSlice(data["test_cases"]); ok {
		visible := make([]interface{}, 0, len(cases))
		for _, c := range cases {
			m, ok := asMap(c)
			if !ok {
				continue
			}
			if hidden, _ := asBool(m["is_hidden"]); hidden {
				continue
			}
			delete(m, "expected_output")
			visible = append(visible, m)
		}
		data["test_cases"] = visible
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return out
}
