package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors so the transport layer can map them
// to status codes in one place.
type ErrorCode string

const (
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeInvalidState  ErrorCode = "INVALID_STATE"
	CodeConflict      ErrorCode = "CONFLICT"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
)

// DomainError is the error type returned by domain and application code for
// expected failure conditions.
type DomainError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFoundError creates a NOT_FOUND error for a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// NewValidationError creates a VALIDATION error.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewForbiddenError creates a FORBIDDEN error for authorization failures.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

// NewInvalidStateError creates an INVALID_STATE error for a transition that
// is not permitted from the current status.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("invalid state transition from %s to %s", from, to),
	}
}

// NewConflictError creates a CONFLICT error (optimistic lock failures).
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// NewUnauthorizedError creates an UNAUTHORIZED error.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: message}
}

// CodeOf extracts the error code from err, or empty string if err is not a
// DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsConflict reports whether err is a CONFLICT domain error.
func IsConflict(err error) bool {
	return CodeOf(err) == CodeConflict
}
