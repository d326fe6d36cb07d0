package params

import (
	"testing"

	apperr "kondate-planner/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PassThrough(t *testing.T) {
	structured := map[string]interface{}{"lunch": []interface{}{}}
	list := []interface{}{"a"}

	tests := []struct {
		name  string
		value interface{}
	}{
		{"object", structured},
		{"list", list},
		{"number", float64(3)},
		{"boolean", true},
		{"null", nil},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := NormalizeWithEncoding(tt.value, "meals")
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
			assert.Equal(t, EncodingNative, enc)
		})
	}
}

func TestNormalize_StrictJSONFirst(t *testing.T) {
	got, enc, err := NormalizeWithEncoding(`{"a":1}`, "meals")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, got)
	assert.Equal(t, EncodingJSON, enc)
}

func TestNormalize_QuasiJSONFallback(t *testing.T) {
	got, enc, err := NormalizeWithEncoding("{dinner=[{recipe_id=recipe_003, name=肉じゃが}]}", "meals")
	require.NoError(t, err)
	assert.Equal(t, EncodingQuasiJSON, enc)
	assert.Equal(t, map[string]interface{}{
		"dinner": []interface{}{map[string]interface{}{"recipe_id": "recipe_003", "name": "肉じゃが"}},
	}, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	once, err := Normalize("{a=[1, 2]}", "meals")
	require.NoError(t, err)
	twice, err := Normalize(once, "meals")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalize_FailureNamesField(t *testing.T) {
	_, err := Normalize("{name=a, b}", "meals")
	require.Error(t, err)

	stdErr := apperr.AsStandardError(err)
	assert.Equal(t, apperr.ErrCodeUnparsableParameter, stdErr.Code)
	assert.Equal(t, "meals", stdErr.Field)
	assert.Equal(t, "{name=a, b}", stdErr.Metadata["original"])
}
