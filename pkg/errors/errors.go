package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration compile errors
	ErrConfigParse        ErrorCode = "CONFIG_PARSE"
	ErrStructureRule      ErrorCode = "STRUCTURE_RULE"
	ErrUseRule            ErrorCode = "USE_RULE"
	ErrDirectoryStructure ErrorCode = "DIRECTORY_STRUCTURE"
	ErrTemplate           ErrorCode = "TEMPLATE"

	// Scan errors
	ErrMissingMapping   ErrorCode = "MISSING_MAPPING"
	ErrUnspecifiedEntry ErrorCode = "UNSPECIFIED_ENTRY"
	ErrForbiddenEntry   ErrorCode = "FORBIDDEN_ENTRY"
	ErrMissingRequired  ErrorCode = "MISSING_REQUIRED"
	ErrCompanionMissing ErrorCode = "COMPANION_MISSING"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
)

// TreelintError represents a structured error with code and details
type TreelintError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TreelintError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TreelintError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TreelintError) Is(target error) bool {
	var targetErr *TreelintError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TreelintError with the given code and message
func New(code ErrorCode, message string) *TreelintError {
	return &TreelintError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TreelintError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TreelintError {
	return &TreelintError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TreelintError
func Wrap(err error, code ErrorCode, message string) *TreelintError {
	if err == nil {
		return nil
	}
	return &TreelintError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TreelintError {
	if err == nil {
		return nil
	}
	return &TreelintError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TreelintError) WithDetail(key string, value interface{}) *TreelintError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tlErr *TreelintError
	if errors.As(err, &tlErr) {
		return tlErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TreelintError
func GetErrorCode(err error) ErrorCode {
	var tlErr *TreelintError
	if errors.As(err, &tlErr) {
		return tlErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TreelintError
func GetErrorDetails(err error) map[string]interface{} {
	var tlErr *TreelintError
	if errors.As(err, &tlErr) {
		return tlErr.Details
	}
	return nil
}
