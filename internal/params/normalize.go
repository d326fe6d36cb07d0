package params

import (
	"encoding/json"

	apperr "kondate-planner/internal/common/errors"
)

// Encoding records how a normalized value arrived.
type Encoding string

const (
	EncodingNative    Encoding = "native"
	EncodingJSON      Encoding = "json"
	EncodingQuasiJSON Encoding = "quasi-json"
)

// Normalize returns value as a structured value when it is JSON or
// quasi-JSON text. Structured values, non-strings and the empty string pass
// through unchanged, so normalizing twice is a no-op.
func Normalize(value interface{}, field string) (interface{}, error) {
	v, _, err := NormalizeWithEncoding(value, field)
	return v, err
}

func NormalizeWithEncoding(value interface{}, field string) (interface{}, Encoding, error) {
	text, ok := value.(string)
	if !ok || text == "" {
		return value, EncodingNative, nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed, EncodingJSON, nil
	}

	parsed, transformed, err := repair(text)
	if err != nil {
		return nil, EncodingQuasiJSON, apperr.NewUnparsableParameterError(field, text, transformed, err)
	}
	return parsed, EncodingQuasiJSON, nil
}
