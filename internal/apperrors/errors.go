package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInsufficientFunds indicates that a debit would take an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInternal indicates an unexpected failure in the service or a collaborator.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with a status code and a message
// suitable for logging. The repository layer uses it for store failures so
// that callers can still unwrap the original cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
