package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error identifying the offending
// field and the rule it violated. Validation failures are recoverable by the
// caller correcting its input and are never retried automatically.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_FAILED",
		Field:   field,
		Message: message,
	}
}

// NewPersistenceError wraps a storage failure with enough context for the
// caller to distinguish it from domain validation failures.
func NewPersistenceError(operation string, cause error) *DomainError {
	return &DomainError{
		Code:    "PERSISTENCE_FAILED",
		Message: fmt.Sprintf("%s: %v", operation, cause),
	}
}

// IsValidationError reports whether err is a domain validation failure.
func IsValidationError(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == "VALIDATION_FAILED"
	}
	return false
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrAmbiguousTime       = NewDomainError("AMBIGUOUS_TIME", "Timestamp carries no timezone context")
)
