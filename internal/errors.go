package internal

import (
	"errors"
	"net/http"
)

// AppError is a generic error carrying the HTTP status it should surface with.
type AppError struct {
	Status  int
	Message string
}

func NewAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Message: msg}
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrRouteNotFound = NewAppError(http.StatusNotFound, "not found")
	ErrUserNotFound  = NewAppError(http.StatusNotFound, "unknown userId")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError keeps field errors in the order they were found.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0].Message
}

func (e *ValidationError) Add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// IsNotFound reports whether err resolves to a 404 AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}
