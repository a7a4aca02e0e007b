package grading

import (
	"encoding/json"
	"strings"
)

// NormalizedAnswer tags a submitted payload with its question type. The heavy
// canonicalization lives in the per-type graders, which defensively parse
// Data; the normalizer's job is unwrapping double-encoded JSON and never
// failing on malformed input.
type NormalizedAnswer struct {
	Type        QuestionType
	Data        interface{}
	Explanation string
}

// NormalizeAnswer converts a raw submitted payload into a NormalizedAnswer.
// Unparsable JSON strings are kept as-is and surface as a grading error
// downstream instead of crashing here.
func NormalizeAnswer(raw interface{}, t QuestionType) NormalizedAnswer {
	return NormalizedAnswer{Type: t, Data: unwrapPayload(raw)}
}

func unwrapPayload(raw interface{}) interface{} {
	switch v := raw.(type) {
	case json.RawMessage:
		return decodeOrKeep(string(v), raw)
	case []byte:
		return decodeOrKeep(string(v), raw)
	case string:
		trimmed := strings.TrimSpace(v)
		// Only strings that look like JSON documents get a decode attempt;
		// a short-answer text of "true" must stay a string.
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return decodeOrKeep(trimmed, raw)
		}
		return raw
	default:
		return raw
	}
}

func decodeOrKeep(s string, fallback interface{}) interface{} {
	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return fallback
	}
	return unwrapPayload(out)
}
