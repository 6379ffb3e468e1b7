package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	CodeValidation           ErrorCode = "VALIDATION_ERROR"
	CodeNotFound             ErrorCode = "RESOURCE_NOT_FOUND"
	CodeConflict             ErrorCode = "RESOURCE_CONFLICT"
	CodeStateConflict        ErrorCode = "STATE_CONFLICT"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
	CodeDataIntegrity        ErrorCode = "DATA_INTEGRITY"
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeUnavailable          ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError is the service-level error carried across layers and mapped
// onto HTTP responses at the edge.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetail attaches a structured detail field
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newAppError(code ErrorCode, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// ErrValidation creates a validation error (400)
func ErrValidation(message string) *AppError {
	return newAppError(CodeValidation, http.StatusBadRequest, message)
}

// ErrNotFound creates a not-found error (404)
func ErrNotFound(resource, id string) *AppError {
	return newAppError(CodeNotFound, http.StatusNotFound,
		fmt.Sprintf("%s %s not found", resource, id))
}

// ErrConflict creates a resource conflict error (409)
func ErrConflict(message string) *AppError {
	return newAppError(CodeConflict, http.StatusConflict, message)
}

// ErrStateConflict creates a state-machine conflict error (409)
func ErrStateConflict(message string) *AppError {
	return newAppError(CodeStateConflict, http.StatusConflict, message)
}

// ErrForbidden creates an authorization error (403)
func ErrForbidden(message string) *AppError {
	return newAppError(CodeForbidden, http.StatusForbidden, message)
}

// ErrConfirmationRequired creates a confirmation-required error (422).
// The caller may retry the same operation with an explicit confirmation flag.
func ErrConfirmationRequired(message string) *AppError {
	return newAppError(CodeConfirmationRequired, http.StatusUnprocessableEntity, message)
}

// ErrDataIntegrity creates a referential-integrity error (422)
func ErrDataIntegrity(message string) *AppError {
	return newAppError(CodeDataIntegrity, http.StatusUnprocessableEntity, message)
}

// ErrInternal creates an internal error (500)
func ErrInternal(message string) *AppError {
	return newAppError(CodeInternal, http.StatusInternalServerError, message)
}

// ErrUnavailable creates a service-unavailable error (503)
func ErrUnavailable(message string) *AppError {
	return newAppError(CodeUnavailable, http.StatusServiceUnavailable, message)
}

// AsAppError extracts an *AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
