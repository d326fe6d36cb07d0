// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode identifies a classified outcome. Codes double as BPMN error codes
// when an action runs behind a Zeebe job worker.
type ErrorCode string

const (
	// Validation kinds. Never retried.
	ErrCodeMissingField              ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidType               ErrorCode = "INVALID_TYPE"
	ErrCodeOutOfRange                ErrorCode = "OUT_OF_RANGE"
	ErrCodeInvalidDate               ErrorCode = "INVALID_DATE"
	ErrCodeInvalidShape              ErrorCode = "INVALID_SHAPE"
	ErrCodeEmptyMealSlot             ErrorCode = "EMPTY_MEAL_SLOT"
	ErrCodeIncompleteRecipeReference ErrorCode = "INCOMPLETE_RECIPE_REFERENCE"
	ErrCodeUnparsableParameter       ErrorCode = "UNPARSABLE_PARAMETER"

	// Domain outcomes.
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"

	// Failures.
	ErrCodeCollaboratorFailure ErrorCode = "COLLABORATOR_FAILURE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the single error type handed across package boundaries.
// Field names the offending parameter for validation kinds.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Field     string                 `json:"field,omitempty"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a diagnostic key and returns the receiver.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, field, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Field:     field,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Validation constructors
// ==========================

func NewMissingFieldError(field string) *StandardError {
	return newError(ErrCodeMissingField, field, fmt.Sprintf("%s is required", field))
}

func NewInvalidTypeError(field, expected string, got interface{}) *StandardError {
	err := newError(ErrCodeInvalidType, field, fmt.Sprintf("%s must be %s", field, expected))
	err.Details = fmt.Sprintf("got %T (%v)", got, got)
	return err
}

func NewOutOfRangeError(field string, value, bound int, above bool) *StandardError {
	msg := fmt.Sprintf("%s must be at least %d", field, bound)
	if above {
		msg = fmt.Sprintf("%s must be at most %d", field, bound)
	}
	err := newError(ErrCodeOutOfRange, field, msg)
	err.Details = fmt.Sprintf("got %d", value)
	return err
}

// NewInvalidChoiceError rejects a value outside a fixed set of allowed ones.
func NewInvalidChoiceError(field string, value interface{}, allowed []int) *StandardError {
	choices := make([]string, len(allowed))
	for i, a := range allowed {
		choices[i] = fmt.Sprintf("%d", a)
	}
	err := newError(ErrCodeOutOfRange, field, fmt.Sprintf("%s must be one of %s", field, strings.Join(choices, ", ")))
	err.Details = fmt.Sprintf("got %v", value)
	return err
}

func NewInvalidDateError(field string, value interface{}) *StandardError {
	err := newError(ErrCodeInvalidDate, field, fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", field))
	err.Details = fmt.Sprintf("got %v", value)
	return err
}

func NewInvalidShapeError(field, message string) *StandardError {
	return newError(ErrCodeInvalidShape, field, message)
}

func NewEmptyMealSlotError(slot string) *StandardError {
	return newError(ErrCodeEmptyMealSlot, "meals."+slot, fmt.Sprintf("meals.%s must contain at least one recipe", slot))
}

func NewIncompleteRecipeReferenceError(slot string, index int) *StandardError {
	field := fmt.Sprintf("meals.%s[%d]", slot, index)
	return newError(ErrCodeIncompleteRecipeReference, field, fmt.Sprintf("%s must have recipe_id and name", field))
}

// NewUnparsableParameterError keeps the original and the rewritten text so an
// operator can see where the repair went wrong.
func NewUnparsableParameterError(field, original, transformed string, cause error) *StandardError {
	err := newError(ErrCodeUnparsableParameter, field, fmt.Sprintf("%s could not be parsed as structured data", field))
	if cause != nil {
		err.Details = cause.Error()
	}
	err.cause = cause
	return err.
		WithMetadata("original", original).
		WithMetadata("transformed", transformed)
}

// ==========================
// Domain constructors
// ==========================

func NewConflictError(resource, key string, existing interface{}) *StandardError {
	err := newError(ErrCodeConflict, "", fmt.Sprintf("%s %s already exists", resource, key))
	return err.WithMetadata("existing", existing)
}

func NewNotFoundError(resource, details string) *StandardError {
	err := newError(ErrCodeNotFound, "", fmt.Sprintf("%s not found", resource))
	err.Details = details
	return err
}

func NewMethodNotAllowedError(method string) *StandardError {
	err := newError(ErrCodeMethodNotAllowed, "", "Method not allowed")
	err.Details = fmt.Sprintf("method %q", method)
	return err
}

// NewCollaboratorFailureError wraps a storage or model failure. The message is
// the generic one returned to callers; the cause goes to the logs only.
func NewCollaboratorFailureError(collaborator string, cause error) *StandardError {
	err := newError(ErrCodeCollaboratorFailure, "", "Internal server error")
	err.Retryable = true
	err.cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err.WithMetadata("collaborator", collaborator)
}

func NewInternalError(cause error) *StandardError {
	err := newError(ErrCodeInternal, "", "Internal server error")
	err.cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// ==========================
// Classification
// ==========================

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeMissingField:              http.StatusBadRequest,
	ErrCodeInvalidType:               http.StatusBadRequest,
	ErrCodeOutOfRange:                http.StatusBadRequest,
	ErrCodeInvalidDate:               http.StatusBadRequest,
	ErrCodeInvalidShape:              http.StatusBadRequest,
	ErrCodeEmptyMealSlot:             http.StatusBadRequest,
	ErrCodeIncompleteRecipeReference: http.StatusBadRequest,
	ErrCodeUnparsableParameter:       http.StatusBadRequest,
	ErrCodeConflict:                  http.StatusConflict,
	ErrCodeNotFound:                  http.StatusNotFound,
	ErrCodeMethodNotAllowed:          http.StatusMethodNotAllowed,
	ErrCodeCollaboratorFailure:       http.StatusInternalServerError,
	ErrCodeInternal:                  http.StatusInternalServerError,
}

// HTTPStatus returns the status code a handler responds with for code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AsStandardError finds a StandardError in err's chain or wraps err as an
// internal error.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return AsStandardError(err).Code
}

func IsValidation(code ErrorCode) bool {
	return GetErrorCategory(code) == "validation"
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return code == ErrCodeCollaboratorFailure
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeMissingField, ErrCodeInvalidType, ErrCodeOutOfRange, ErrCodeInvalidDate,
		ErrCodeInvalidShape, ErrCodeEmptyMealSlot, ErrCodeIncompleteRecipeReference,
		ErrCodeUnparsableParameter:
		return "validation"
	case ErrCodeConflict, ErrCodeNotFound, ErrCodeMethodNotAllowed:
		return "domain"
	case ErrCodeCollaboratorFailure:
		return "collaborator"
	default:
		return "internal"
	}
}

// ==========================
// BPMN mapping
// ==========================

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// GetRetryCount is the number of job retries granted to a code.
func GetRetryCount(code ErrorCode) int {
	if IsRetryableErrorCode(code) {
		return 3
	}
	return 0
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	vars := map[string]interface{}{}
	if stdErr.Field != "" {
		vars["errorField"] = stdErr.Field
	}
	if existing, ok := stdErr.Metadata["existing"]; ok {
		vars["existingRecord"] = existing
	}
	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: vars,
	}
}
