// Package params turns loosely typed invocation parameters into Go values:
// bounded integer coercion, boolean flags, and recovery of structured values
// that arrive as JSON or quasi-JSON text.
package params

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperr "kondate-planner/internal/common/errors"
)

type intBounds struct {
	min, max *int
	def      *int
}

// IntOption constrains CoerceInt.
type IntOption func(*intBounds)

func Min(n int) IntOption { return func(b *intBounds) { b.min = &n } }

func Max(n int) IntOption { return func(b *intBounds) { b.max = &n } }

// Default is returned when the value is absent or the empty string.
func Default(n int) IntOption { return func(b *intBounds) { b.def = &n } }

// CoerceInt parses value as an integer named field. Strings are trimmed
// before parsing; JSON numbers must be whole.
func CoerceInt(value interface{}, field string, opts ...IntOption) (int, error) {
	var b intBounds
	for _, opt := range opts {
		opt(&b)
	}

	if isAbsent(value) {
		if b.def != nil {
			return *b.def, nil
		}
		return 0, apperr.NewMissingFieldError(field)
	}

	n, ok := toInt(value)
	if !ok {
		return 0, apperr.NewInvalidTypeError(field, "an integer", value)
	}

	if b.min != nil && n < *b.min {
		return 0, apperr.NewOutOfRangeError(field, n, *b.min, false)
	}
	if b.max != nil && n > *b.max {
		return 0, apperr.NewOutOfRangeError(field, n, *b.max, true)
	}
	return n, nil
}

func isAbsent(value interface{}) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := strconv.Atoi(v.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

// Bool reads a flag. Only a boolean true or the string "true" in any case
// counts as true; everything else, including absence, is false.
func Bool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// String renders a scalar parameter as text. Absent values become "".
func String(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
