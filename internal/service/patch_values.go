package service

import (
	"encoding/json"
	"time"
)

// Patch values arrive as decoded JSON (string, float64, bool, []any,
// map[string]any). These helpers coerce them into domain types; a value of
// the wrong shape leaves the zero value, which validation upstream prevents.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func asTime(v any) time.Time {
	s, _ := v.(string)
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// decodeInto re-marshals a decoded JSON value into a typed target. Used for
// nested structures like labor line items.
func decodeInto(v any, target any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
