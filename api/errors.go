package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/azihell/properties-dashboard/services"
)

// Error codes returned in the response envelope.
const (
	CodeMalformedInput  = "ERR_MALFORMED_INPUT"
	CodeEmptyInput      = "ERR_EMPTY_INPUT"
	CodeDegenerateRange = "ERR_DEGENERATE_RANGE"
	CodeNotFound        = "ERR_NOT_FOUND"
	CodeBadRequest      = "ERR_BAD_REQUEST"
	CodeTooLarge        = "ERR_TOO_LARGE"
	CodeInternal        = "ERR_INTERNAL"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Status  int            `json:"-"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Field: field, Message: message, Status: status}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value any) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]any)
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// SessionNotFound is returned for unknown or evicted session ids.
func SessionNotFound(id string) *AppError {
	return NewAppError(CodeNotFound, "id", fmt.Sprintf("session %q not found", id), http.StatusNotFound)
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, "", message, http.StatusBadRequest)
}

// FromPipelineError maps a pipeline failure onto an AppError. Input problems
// are 422; anything else is a 500.
func FromPipelineError(err error) *AppError {
	var (
		malformed  *services.MalformedInputError
		empty      *services.EmptyInputError
		degenerate *services.DegenerateRangeError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &malformed):
		return NewAppError(CodeMalformedInput, malformed.Column, malformed.Error(), http.StatusUnprocessableEntity).WithError(err)
	case errors.As(err, &empty):
		return NewAppError(CodeEmptyInput, "", empty.Error(), http.StatusUnprocessableEntity).
			WithParam("stage", empty.Stage).WithError(err)
	case errors.As(err, &degenerate):
		return NewAppError(CodeDegenerateRange, "", degenerate.Error(), http.StatusUnprocessableEntity).
			WithParam("price", degenerate.Price).WithError(err)
	case errors.As(err, &tooLarge):
		return NewAppError(CodeTooLarge, "file", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge).WithError(err)
	default:
		return NewAppError(CodeInternal, "", "Something went wrong", http.StatusInternalServerError).WithError(err)
	}
}
