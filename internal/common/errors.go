package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NotFound constructs the canonical not-found error.
func NotFound(message string, err error) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound, Err: err}
}

// BadRequest constructs a validation error with an optional offending field.
func BadRequest(message, field string, err error) *AppError {
	appErr := &AppError{Code: "VALIDATION_ERROR", Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
	if field != "" {
		appErr.Details = map[string]any{"field": field}
	}
	return appErr
}

// Conflict constructs the canonical conflict error.
func Conflict(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: http.StatusConflict, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
