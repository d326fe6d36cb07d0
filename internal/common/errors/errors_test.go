package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeMissingField, http.StatusBadRequest},
		{ErrCodeInvalidType, http.StatusBadRequest},
		{ErrCodeOutOfRange, http.StatusBadRequest},
		{ErrCodeInvalidDate, http.StatusBadRequest},
		{ErrCodeInvalidShape, http.StatusBadRequest},
		{ErrCodeEmptyMealSlot, http.StatusBadRequest},
		{ErrCodeIncompleteRecipeReference, http.StatusBadRequest},
		{ErrCodeUnparsableParameter, http.StatusBadRequest},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{ErrCodeCollaboratorFailure, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.code))
		})
	}
}

func TestCodeOf_WrappedError(t *testing.T) {
	base := NewMissingFieldError("date")
	wrapped := fmt.Errorf("validate: %w", base)

	assert.Equal(t, ErrCodeMissingField, CodeOf(wrapped))
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("boom")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestCollaboratorFailure_KeepsCause(t *testing.T) {
	cause := stderrors.New("ProvisionedThroughputExceededException")
	err := NewCollaboratorFailureError("dynamodb", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.Retryable)
	assert.Equal(t, "Internal server error", err.Message)
	assert.Equal(t, "dynamodb", err.Metadata["collaborator"])
}

func TestMessagesNameTheField(t *testing.T) {
	assert.Equal(t, "date is required", NewMissingFieldError("date").Message)
	assert.Equal(t, "days must be at least 1", NewOutOfRangeError("days", 0, 1, false).Message)
	assert.Equal(t, "days must be at most 365", NewOutOfRangeError("days", 366, 365, true).Message)
	assert.Contains(t, NewInvalidDateError("date", "2025/11/08").Message, "YYYY-MM-DD")
	assert.Equal(t, "meals.lunch", NewEmptyMealSlotError("lunch").Field)
	assert.Equal(t, "meals.dinner[2]", NewIncompleteRecipeReferenceError("dinner", 2).Field)
}

func TestConvertToBPMNError(t *testing.T) {
	existing := map[string]interface{}{"date": "2025-11-08"}
	bpmn := ConvertToBPMNError(NewConflictError("menu", "2025-11-08", existing))

	require.NotNil(t, bpmn)
	assert.Equal(t, "CONFLICT", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "CONFLICT", vars["errorCode"])
	assert.Equal(t, existing, vars["existingRecord"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "validation", GetErrorCategory(ErrCodeUnparsableParameter))
	assert.Equal(t, "domain", GetErrorCategory(ErrCodeConflict))
	assert.Equal(t, "collaborator", GetErrorCategory(ErrCodeCollaboratorFailure))
	assert.Equal(t, "internal", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsValidation(ErrCodeEmptyMealSlot))
	assert.False(t, IsValidation(ErrCodeConflict))
}
