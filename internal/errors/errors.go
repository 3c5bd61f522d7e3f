package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the partner integration
var (
	// Authorization flow errors
	ErrInvalidState        = errors.New("invalid state parameter")
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// Credential errors
	ErrNoCredential = errors.New("no access token found for user")

	// Partner API errors
	ErrRegistrationFailed    = errors.New("user registration failed")
	ErrTransactionListFailed = errors.New("transaction listing failed")

	// Store errors
	ErrNotFound       = errors.New("not found")
	ErrSessionExpired = errors.New("session expired")
)

// StatusError records a non-success response from the partner API.
// Err is one of the sentinels above so errors.Is still works on the category.
type StatusError struct {
	Err        error
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d - %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError builds a StatusError for the given category.
func NewStatusError(category error, statusCode int, body string) *StatusError {
	return &StatusError{Err: category, StatusCode: statusCode, Body: body}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
