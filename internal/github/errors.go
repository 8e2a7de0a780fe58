package github

import (
	"errors"
	"fmt"
)

// APIError represents a failed GitHub API request.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GitHub API error (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError with the given status code and message
func NewAPIError(statusCode int, message string, err error) error {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// ExhaustedRetriesError is returned when the outer retry loop hits its
// hard iteration ceiling without a successful response.
type ExhaustedRetriesError struct {
	Attempts   int
	LastStatus int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("giving up after %d attempts (last status %d)", e.Attempts, e.LastStatus)
}

// RepositoryNotFoundError represents when a repository cannot be found
type RepositoryNotFoundError struct {
	Owner string
	Name  string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s/%s", e.Owner, e.Name)
}

// ValidationError represents invalid input to client methods
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s: %s", e.Field, e.Value)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value string) error {
	return &ValidationError{
		Field: field,
		Value: value,
	}
}

// IsNotFoundError checks if an error is a RepositoryNotFoundError
func IsNotFoundError(err error) bool {
	var nf *RepositoryNotFoundError
	return errors.As(err, &nf)
}

// IsExhaustedRetriesError checks if an error is an ExhaustedRetriesError
func IsExhaustedRetriesError(err error) bool {
	var ex *ExhaustedRetriesError
	return errors.As(err, &ex)
}
