package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes. Typed errors below report membership through errors.Is.
var (
	ErrAuth       = errors.New("credential rejected")
	ErrNetwork    = errors.New("network error")
	ErrTimeout    = errors.New("request timed out")
	ErrValidation = errors.New("validation failed")
	ErrHTTP       = errors.New("backend returned an error")
	ErrNotFound   = errors.New("resource not found")
)

// Session errors.
var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrInvalidLogin     = errors.New("invalid username or password")
)

// AuthError is returned when the backend rejects the credential (401/403).
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.Status)
	}
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// NetworkError covers transport failures and the gateway timeout.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return "request timed out"
	}
	if e.Err == nil {
		return "network error"
	}
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return true
	case ErrTimeout:
		return e.Timeout
	}
	return false
}

// ValidationError is a client-side input check failure. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// HTTPError is any non-2xx response that is neither an auth failure nor a 404.
type HTTPError struct {
	Status  int
	Message string
	// Err is set when a 2xx response could not be decoded.
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NotFoundError is an HTTPError with status 404.
type NotFoundError struct {
	HTTPError
}

// NewNotFoundError builds a NotFoundError carrying message.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{HTTPError{Status: http.StatusNotFound, Message: message}}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrHTTP
}

// As lets callers that only know about *HTTPError extract a not-found error.
func (e *NotFoundError) As(target any) bool {
	if t, ok := target.(**HTTPError); ok {
		*t = &e.HTTPError
		return true
	}
	return false
}
