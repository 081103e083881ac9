// Package errors provides structured error types for DataSprout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the generator, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Configuration errors abort a generation run. They name the offending key,
// relation or tag so the message alone is enough to fix the setup:
//   - MISSING_KEY, NO_PATTERN, DISTRIBUTION_MISMATCH, TYPE_MISMATCH
//   - UNSUPPORTED_LOCALE, MISSING_URI, MISSING_LABEL, INVALID_FORMATTING
//
// Structural errors concern a single rendered item:
//   - UNBALANCED_TAG, UNKNOWN_CELL_TYPE, UNKNOWN_DATATYPE
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingKey, "key not found: %s", key)
//	if errors.Is(err, errors.ErrCodeMissingKey) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Configuration errors
	ErrCodeMissingKey           Code = "MISSING_KEY"
	ErrCodeNoPattern            Code = "NO_PATTERN"
	ErrCodeDistribution         Code = "DISTRIBUTION_MISMATCH"
	ErrCodeTypeMismatch         Code = "TYPE_MISMATCH"
	ErrCodeUnsupportedLocale    Code = "UNSUPPORTED_LOCALE"
	ErrCodeMissingURI           Code = "MISSING_URI"
	ErrCodeMissingLabel         Code = "MISSING_LABEL"
	ErrCodeInvalidFormatting    Code = "INVALID_FORMATTING"
	ErrCodeEmptyCandidates      Code = "EMPTY_CANDIDATES"
	ErrCodeInvalidConfiguration Code = "INVALID_CONFIGURATION"

	// Structural errors
	ErrCodeUnbalancedTag   Code = "UNBALANCED_TAG"
	ErrCodeUnknownCellType Code = "UNKNOWN_CELL_TYPE"
	ErrCodeUnknownDatatype Code = "UNKNOWN_DATATYPE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err is a configuration error, i.e. one
// that a different setup or option set would have avoided.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingKey, ErrCodeNoPattern, ErrCodeDistribution, ErrCodeTypeMismatch,
		ErrCodeUnsupportedLocale, ErrCodeMissingURI, ErrCodeMissingLabel,
		ErrCodeInvalidFormatting, ErrCodeEmptyCandidates, ErrCodeInvalidConfiguration:
		return true
	}
	return false
}
