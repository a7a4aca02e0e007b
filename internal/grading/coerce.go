package grading

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Coercion helpers for the loosely-typed payloads coming out of JSON storage.
// Numbers decode as float64, but legacy writers also stored numeric strings
// and json.Number, so every lookup goes through these.

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asInt(v interface{}) (int, bool) {
	f, ok := asFloat(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func asBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
		return false, false
	default:
		if f, ok := asFloat(v); ok {
			return f != 0, true
		}
		return false, false
	}
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// asIntSlice coerces every element; a single uncoercible element rejects the
// whole slice so a half-parsed selection never grades as a smaller answer.
func asIntSlice(v interface{}) ([]int, bool) {
	raw, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		n, ok := asInt(e)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func asStringSlice(v interface{}) ([]string, bool) {
	raw, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := asString(e)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func asStringMap(v interface{}) (map[string]string, bool) {
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, e := range m {
		s, ok := asString(e)
		if !ok {
			return nil, false
		}
		out[k] = s
	}
	return out, true
}
