// Package safe coerces loosely-shaped decoded JSON into known Go types.
//
// The remote API is inconsistent about numeric encodings (Django's DecimalField
// renders prices as strings) and about list envelopes, so every accessor
// returns a usable value instead of an error.
package safe

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number returns v as a float64, parsing numeric strings. Anything else yields fallback.
func Number(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return fallback
}

// Int is Number truncated toward zero.
func Int(v any, fallback int) int {
	return int(Number(v, float64(fallback)))
}

// Decimal parses v as an exact decimal; strings keep their precision.
func Decimal(v any, fallback decimal.Decimal) decimal.Decimal {
	switch n := v.(type) {
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(n)); err == nil {
			return d
		}
		return fallback
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
		return fallback
	case decimal.Decimal:
		return n
	}
	if f := Number(v, math.NaN()); !math.IsNaN(f) {
		return decimal.NewFromFloat(f)
	}
	return fallback
}

// String returns v when it is a string, the decimal rendering of numbers, and "" otherwise.
func String(v any) string {
	return StringOr(v, "")
}

func StringOr(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return fallback
}

func Bool(v any, fallback bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return fallback
}

// Array returns v when it is a JSON array; otherwise fallback.
func Array(v any, fallback []any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return fallback
}

// Map returns v as a JSON object, or nil.
func Map(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// Get walks a dot-separated path through nested objects and arrays.
// Numeric segments index into arrays.
func Get(v any, path string, fallback any) any {
	if path == "" {
		if v == nil {
			return fallback
		}
		return v
	}
	current := v
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return fallback
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return fallback
			}
			current = node[idx]
		default:
			return fallback
		}
	}
	if current == nil {
		return fallback
	}
	return current
}
