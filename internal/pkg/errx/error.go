package errx

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// UnavailableMessage asks the user to retry a failed upstream read.
	UnavailableMessage = "failed to load products, please try again"

	CodeInternal    = "internal_error"
	CodeUnavailable = "product_source_unavailable"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err       error
	Status    int
	Code      string
	Message   string
	Retryable bool
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, code, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Unavailable marks an upstream failure the user can retry by hand.
func Unavailable(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:       err,
		Status:    http.StatusBadGateway,
		Code:      CodeUnavailable,
		Message:   UnavailableMessage,
		Retryable: true,
	}
}

// From returns the AppError in err's chain, or an internal error wrapping err.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(err, http.StatusInternalServerError, CodeInternal, SystemErrorMessage)
}
