package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an upstream answered successfully with zero results.
	ErrNotFound = errors.New("not found")
	// ErrInvalidResponse means an upstream body did not have the expected structure.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError represents a transport or HTTP failure talking to an upstream service
type APIError struct {
	Service    string
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API error: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error: %s", e.Service, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new upstream API error
func NewAPIError(service, message string, statusCode int, err error) *APIError {
	return &APIError{
		Service:    service,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// InvalidResponse wraps ErrInvalidResponse with the reason the body was rejected.
func InvalidResponse(service, reason string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %s: %v", service, ErrInvalidResponse, reason, err)
	}
	return fmt.Errorf("%s: %w: %s", service, ErrInvalidResponse, reason)
}
