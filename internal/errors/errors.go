// FilePath: internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeValidation          ErrorType = "validation"
	ErrorTypeConfiguration       ErrorType = "configuration"
	ErrorTypeUpstreamGeneration  ErrorType = "upstream_generation"
	ErrorTypeUpstreamComposition ErrorType = "upstream_composition"
	ErrorTypeStorage             ErrorType = "storage"
	ErrorTypeDatabase            ErrorType = "database"
	ErrorTypeNotFound            ErrorType = "not_found"
	ErrorTypeMethodNotAllowed    ErrorType = "method_not_allowed"
	ErrorTypeInternal            ErrorType = "internal"
)

// APIError represents a structured API error
type APIError struct {
	Success   bool      `json:"success"`
	Type      ErrorType `json:"type"`
	Message   string    `json:"error"`
	Code      int       `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Details   any       `json:"details,omitempty"`
	err       error     // Internal error for logging
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the internal cause to errors.Is / errors.As
func (e *APIError) Unwrap() error {
	return e.err
}

// WithRequestID adds a request ID to the error
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// WithDetails adds additional details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// NewValidationError creates a new client input error
func NewValidationError(msg string, err error) *APIError {
	return newError(ErrorTypeValidation, msg, http.StatusBadRequest, err)
}

// NewConfigurationError reports a missing credential or endpoint
func NewConfigurationError(msg string, err error) *APIError {
	return newError(ErrorTypeConfiguration, msg, http.StatusInternalServerError, err)
}

// NewUpstreamGenerationError reports a brief or prompt generator failure
func NewUpstreamGenerationError(msg string, err error) *APIError {
	return newError(ErrorTypeUpstreamGeneration, msg, http.StatusBadGateway, err)
}

// NewUpstreamCompositionError carries the status reported by the music API.
// A missing (zero) status becomes 500.
func NewUpstreamCompositionError(status int, msg string, err error) *APIError {
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	return newError(ErrorTypeUpstreamComposition, msg, status, err)
}

// NewStorageError creates a new local I/O error
func NewStorageError(msg string, err error) *APIError {
	return newError(ErrorTypeStorage, msg, http.StatusInternalServerError, err)
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *APIError {
	return newError(ErrorTypeDatabase, msg, http.StatusInternalServerError, err)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *APIError {
	return newError(ErrorTypeNotFound, msg, http.StatusNotFound, err)
}

// NewMethodNotAllowedError creates an error for a known route called with the wrong method
func NewMethodNotAllowedError(msg string, err error) *APIError {
	return newError(ErrorTypeMethodNotAllowed, msg, http.StatusMethodNotAllowed, err)
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *APIError {
	return newError(ErrorTypeInternal, msg, http.StatusInternalServerError, err)
}

func newError(t ErrorType, msg string, code int, err error) *APIError {
	return &APIError{
		Type:    t,
		Message: msg,
		Code:    code,
		err:     err,
	}
}

// As returns the first APIError in err's chain
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// TypeOf returns the error type, or ErrorTypeInternal for foreign errors
func TypeOf(err error) ErrorType {
	if apiErr, ok := As(err); ok {
		return apiErr.Type
	}
	return ErrorTypeInternal
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsConfiguration checks if an error is a Configuration error
func IsConfiguration(err error) bool {
	return TypeOf(err) == ErrorTypeConfiguration
}

// Wrap converts any error into an APIError, keeping existing APIErrors as-is
func Wrap(err error, msg string) *APIError {
	if apiErr, ok := As(err); ok {
		return apiErr
	}
	return NewInternalError(msg, err)
}
