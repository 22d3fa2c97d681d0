package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt converts decoded JSON and CSV values to int.
// Floats are accepted only when they hold an integral value.
func ToInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case float64:
		if !finite(v) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return ToInt(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	case []byte:
		i, err := strconv.Atoi(strings.TrimSpace(string(v)))
		return i, err == nil
	default:
		return 0, false
	}
}

// ToFloat converts decoded JSON and CSV values to a finite float64.
func ToFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, finite(v)
	case float32:
		return float64(v), finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil && finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil && finite(f)
	case []byte:
		return ToFloat(string(v))
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ToBool converts various types to bool.
// It handles bool, numeric 0/1, and strings ("1", "0", "true", "false").
func ToBool(val any) (bool, bool) {
	switch v := val.(type) {
	case bool:
		return v, true
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
		return false, false
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
		return false, false
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// ToString converts a scalar to its output text. Floats use the shortest
// representation that round-trips, so 750.0 renders as "750".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return FormatFloat(v)
	case float32:
		return FormatFloat(float64(v))
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatFloat renders f without exponent and without trailing zeros.
func FormatFloat(f float64) string {
	if f == 0 {
		// Avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
