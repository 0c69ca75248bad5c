package action

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StringParam returns params[key] as a string. Numbers and bools are
// formatted; a missing key yields defaultVal.
func StringParam(params map[string]any, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

// IntParam returns params[key] as an int, accepting numeric strings.
func IntParam(params map[string]any, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		if n, err := toFloat(v); err == nil {
			return int(n)
		}
	}
	return defaultVal
}

// FloatParam returns params[key] as a float64. A present value that is not
// a number is an error.
func FloatParam(params map[string]any, key string, defaultVal float64) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return defaultVal, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// BoolParam returns params[key] as a bool, accepting "true"/"false" strings.
func BoolParam(params map[string]any, key string, defaultVal bool) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultVal
}

// MapParam returns params[key] if it is an object, or an empty map.
func MapParam(params map[string]any, key string) map[string]any {
	if m, ok := params[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// ListParam returns params[key] if it is an array, or nil.
func ListParam(params map[string]any, key string) []any {
	if l, ok := params[key].([]any); ok {
		return l
	}
	return nil
}

// PointParam reads an {x, y} object. Both coordinates are required.
func PointParam(params map[string]any, key string) (int, int, error) {
	m, ok := params[key].(map[string]any)
	if !ok {
		return 0, 0, fmt.Errorf("missing or invalid %q (expected an object with x and y)", key)
	}
	x, err := requiredNumber(m, "x")
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", key, err)
	}
	y, err := requiredNumber(m, "y")
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", key, err)
	}
	return int(x), int(y), nil
}

// PairParam reads an [x, y] array, falling back to the defaults when absent.
func PairParam(params map[string]any, key string, defX, defY int) (int, int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return defX, defY, nil
	}
	l, ok := v.([]any)
	if !ok || len(l) != 2 {
		return 0, 0, fmt.Errorf("%q must be a two element array [x, y]", key)
	}
	x, err := toFloat(l[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%s[0]: %w", key, err)
	}
	y, err := toFloat(l[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%s[1]: %w", key, err)
	}
	return int(x), int(y), nil
}

func requiredNumber(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing %q", key)
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%v is not a number", v)
	}
}
