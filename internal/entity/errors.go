package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// User errors
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Card errors
	ErrCardNotFound     = errors.New("card not found")
	ErrInvalidCardState = errors.New("invalid card state")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// RetrievalError means the remote document could not be fetched. The
// pipeline never proceeds to parsing after one of these.
type RetrievalError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retrieve %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("retrieve %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// EmptyDocumentError means parsing produced zero usable content nodes.
type EmptyDocumentError struct {
	URL string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("document %s yielded no content nodes", e.URL)
}

// SchemaViolationError means the generative output failed validation
// against the study-session schema. Never auto-repaired.
type SchemaViolationError struct {
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return "schema violation: " + e.Reason
}

// ServiceUnavailableError wraps a transient failure of an external
// embedding/generation/parsing backend.
type ServiceUnavailableError struct {
	Service string
	Err     error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// IsRetrievalError reports whether err is (or wraps) a RetrievalError.
func IsRetrievalError(err error) bool {
	var target *RetrievalError
	return errors.As(err, &target)
}

// IsEmptyDocumentError reports whether err is (or wraps) an EmptyDocumentError.
func IsEmptyDocumentError(err error) bool {
	var target *EmptyDocumentError
	return errors.As(err, &target)
}

// IsSchemaViolationError reports whether err is (or wraps) a SchemaViolationError.
func IsSchemaViolationError(err error) bool {
	var target *SchemaViolationError
	return errors.As(err, &target)
}

// IsServiceUnavailableError reports whether err is (or wraps) a ServiceUnavailableError.
func IsServiceUnavailableError(err error) bool {
	var target *ServiceUnavailableError
	return errors.As(err, &target)
}
