package schema

import (
	"math"
	"time"
)

// RawRecord is one decoded entry of the model listing endpoint.
// Values keep the shapes produced by the JSON decoder: strings, float64 or
// int64 numbers, bools, []any and nested maps.
type RawRecord map[string]any

// ID returns the model identifier. The listing endpoint uses "id" and older
// payloads use "modelId"; an empty or non-string value counts as missing.
func (r RawRecord) ID() (string, bool) {
	for _, key := range []string{"id", "modelId"} {
		if s, ok := r[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// String returns the value at key as a string pointer, or nil when the key
// is absent, null or not a string.
func (r RawRecord) String(key string) *string {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Int returns the value at key as an integer.
// The second result is false when the value is present but not a whole number.
func (r RawRecord) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case nil:
		return 0, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// Bool returns the value at key as a bool; anything other than true is false.
func (r RawRecord) Bool(key string) bool {
	b, ok := r[key].(bool)
	return ok && b
}

// Time parses the value at key as an RFC3339 timestamp.
// It returns nil, true when the key is absent and nil, false when unparsable.
func (r RawRecord) Time(key string) (*time.Time, bool) {
	v, present := r[key]
	if !present || v == nil {
		return nil, true
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

// Strings returns the string elements of a list value, skipping non-strings.
func (r RawRecord) Strings(key string) []string {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}
