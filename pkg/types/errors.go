package types

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeConnection     ErrorType = "connection"
	ErrorTypeInternal       ErrorType = "internal"
)

// SanjeevanError represents a structured error in the SanjeevanAI system
type SanjeevanError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SanjeevanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *SanjeevanError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *SanjeevanError {
	return &SanjeevanError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *SanjeevanError {
	return &SanjeevanError{
		Type:    ErrorTypeAuthentication,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *SanjeevanError {
	return &SanjeevanError{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(code, message string) *SanjeevanError {
	return &SanjeevanError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

// NewConnectionError creates a new connection error
func NewConnectionError(code, message string, cause error) *SanjeevanError {
	return &SanjeevanError{
		Type:    ErrorTypeConnection,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *SanjeevanError {
	return &SanjeevanError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// TypeOf returns the error category of err, or ErrorTypeInternal for
// errors that did not originate from a workflow.
func TypeOf(err error) ErrorType {
	var se *SanjeevanError
	if errors.As(err, &se) {
		return se.Type
	}
	return ErrorTypeInternal
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return TypeOf(err) == ErrorTypeConflict
}

// Common error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeDatabaseUnavailable  = "DATABASE_UNAVAILABLE"
)
