// Package errors provides a lightweight structured error type (TileFitError)
// for category-based classification in the solve pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a TileFit error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Pipeline stage errors
	CategoryIngest   ErrorCategory = "ingest"
	CategoryDecode   ErrorCategory = "decode"
	CategoryAssemble ErrorCategory = "assemble"
	CategoryCompose  ErrorCategory = "compose"
	CategoryEncode   ErrorCategory = "encode"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryCache      ErrorCategory = "cache"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// TileFitError is a structured error with category, severity, and context
type TileFitError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for TileFitError
type ContextFields map[string]any

// Error implements the error interface
func (e *TileFitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *TileFitError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *TileFitError) WithContext(key string, value any) *TileFitError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new TileFitError
func New(category ErrorCategory, severity ErrorSeverity, message string) *TileFitError {
	return &TileFitError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new TileFitError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *TileFitError {
	return &TileFitError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// Fatal creates a new fatal TileFitError
func Fatal(category ErrorCategory, message string) *TileFitError {
	return New(category, SeverityFatal, message)
}

// WrapFatal wraps an existing error as fatal
func WrapFatal(err error, category ErrorCategory, message string) *TileFitError {
	return Wrap(err, category, SeverityFatal, message)
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if tfe, ok := err.(*TileFitError); ok {
		return tfe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the error is not a TileFitError
func GetCategory(err error) ErrorCategory {
	if tfe, ok := err.(*TileFitError); ok {
		return tfe.Category
	}
	return CategoryInternal
}

// IsFatal reports whether an error carries fatal severity
func IsFatal(err error) bool {
	if tfe, ok := err.(*TileFitError); ok {
		return tfe.Severity == SeverityFatal
	}
	return false
}

// ValidationError creates a new validation error
func ValidationError(message string) *TileFitError {
	return &TileFitError{
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  message,
	}
}
