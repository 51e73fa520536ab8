// Package fields converts between the editing representation of form values
// (comma-separated strings, free-form numbers) and the stored representation
// (string arrays, integers, booleans).
//
// Array elements containing commas cannot survive ToEditString followed by
// ToArray; there is no escaping.
package fields

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToArray splits s on commas, trims each piece and drops empty pieces. Order
// is preserved and duplicates are kept. The result is never nil.
func ToArray(s string) []string {
	out := []string{}
	for _, piece := range strings.Split(s, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// ToArrayValue is ToArray over an untyped form value. nil yields an empty
// array; arrays are trimmed element-wise with empty and non-string elements
// dropped.
func ToArrayValue(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		return ToArray(t)
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// ToEditString joins arr for editing in a single text input.
func ToEditString(arr []string) string {
	return strings.Join(arr, ", ")
}

// ToEditValue is ToEditString over an untyped stored value. Anything that is
// not an array yields "".
func ToEditValue(v any) string {
	switch t := v.(type) {
	case []string:
		return ToEditString(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return ToEditString(parts)
	default:
		return ""
	}
}

// ToInt coerces a form or stored value to an integer. Anything that does not
// parse as a finite number yields 0; fractions truncate toward zero.
func ToInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int8:
		return int(t)
	case int16:
		return int(t)
	case int32:
		return int(t)
	case int64:
		return int(t)
	case uint:
		return uintToInt(uint64(t))
	case uint8:
		return int(t)
	case uint16:
		return int(t)
	case uint32:
		return int(t)
	case uint64:
		return uintToInt(t)
	case float32:
		return floatToInt(float64(t))
	case float64:
		return floatToInt(t)
	case json.Number:
		return parseInt(string(t))
	case string:
		return parseInt(t)
	default:
		return 0
	}
}

func uintToInt(u uint64) int {
	if u > math.MaxInt {
		return 0
	}
	return int(u)
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return floatToInt(f)
}

func floatToInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

// ToBool coerces checkbox-style form values. Strings parse with
// strconv.ParseBool ("on" is also true); anything else is false.
func ToBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "on" {
			return true
		}
		b, _ := strconv.ParseBool(s)
		return b
	default:
		return ToInt(v) != 0
	}
}
