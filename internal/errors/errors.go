package errors

import (
	"fmt"
)

// Code represents stable error codes for all failure modes
type Code string

const (
	// PartialExtraction indicates one type's metadata was malformed or
	// truncated and only a best-effort edge set could be derived
	PartialExtraction Code = "PARTIAL_EXTRACTION"
	// UnresolvedTarget indicates a relationship points to a type outside
	// the analyzed set
	UnresolvedTarget Code = "UNRESOLVED_TARGET"
	// ConfigurationError indicates an invalid rule configuration; the
	// offending rule is skipped
	ConfigurationError Code = "CONFIGURATION_ERROR"
	// InvariantViolation indicates a broken internal precondition; the
	// only fatal class
	InvariantViolation Code = "INVARIANT_VIOLATION"
	// InputUnreadable indicates the metadata dump could not be read
	InputUnreadable Code = "INPUT_UNREADABLE"
	// InternalError indicates an unexpected error
	InternalError Code = "INTERNAL_ERROR"
)

// AnalysisError represents an archscope error with code, message, and context
type AnalysisError struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new AnalysisError
func New(code Code, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AnalysisError) WithDetails(details interface{}) *AnalysisError {
	e.Details = details
	return e
}

// IsFatal reports whether the error must abort the current analysis run.
// Only invariant violations are fatal; every other class is recovered
// locally and surfaced as a diagnostic.
func (e *AnalysisError) IsFatal() bool {
	return e.Code == InvariantViolation
}

// Invariantf builds a fatal invariant violation with full context.
func Invariantf(format string, args ...interface{}) *AnalysisError {
	return New(InvariantViolation, fmt.Sprintf(format, args...), nil)
}
