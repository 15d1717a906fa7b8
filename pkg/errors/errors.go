// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeCorrupt           = "CORRUPT"
	CodeUnresolvableImage = "UNRESOLVABLE_IMAGE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeInvalidRange      = "INVALID_RANGE"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeConfigError       = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Common error instances.
var (
	ErrNotFound          = New(CodeNotFound, "capture not found")
	ErrCorrupt           = New(CodeCorrupt, "corrupt capture")
	ErrUnresolvableImage = New(CodeUnresolvableImage, "unresolvable process image")
	ErrUnsupportedFormat = New(CodeUnsupportedFormat, "unsupported capture format")
	ErrInvalidRange      = New(CodeInvalidRange, "invalid timestamp range")
	ErrInvalidInput      = New(CodeInvalidInput, "invalid input")
	ErrConfigError       = New(CodeConfigError, "configuration error")
)

// IsNotFound checks if the error is a missing-capture error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCorrupt checks if the error is a corrupt-capture error.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// IsUnresolvableImage checks if the error is an unresolvable-image error.
func IsUnresolvableImage(err error) bool {
	return errors.Is(err, ErrUnresolvableImage)
}

// IsInvalidRange checks if the error is a rejected timestamp range.
func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

// IsLoadError reports whether err is one of the errors a capture load can fail with.
func IsLoadError(err error) bool {
	return IsNotFound(err) || IsCorrupt(err) || IsUnresolvableImage(err) ||
		errors.Is(err, ErrUnsupportedFormat)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
