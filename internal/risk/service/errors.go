package service

import "errors"

var (
	ErrConfiguration      = errors.New("configuration_error")
	ErrSigning            = errors.New("signing_error")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrForbidden          = errors.New("forbidden")

	// ErrEmptyIdentity means IssuePair was handed claims without an email.
	// Such a pair could never verify, so none is signed.
	ErrEmptyIdentity = errors.New("empty_identity")
)

// ValidationError is a malformed input. Its message is safe to show the
// caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// ResolutionError means a referenced entity could not be found. Err keeps
// the underlying cause for logs; Message is what the caller sees.
type ResolutionError struct {
	Message string
	Err     error
}

func (e *ResolutionError) Error() string { return e.Message }
func (e *ResolutionError) Unwrap() error { return e.Err }

func unresolved(msg string, err error) error { return &ResolutionError{Message: msg, Err: err} }

// ConflictError reports an attempt to create something that already exists.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflict(msg string) error { return &ConflictError{Message: msg} }

// ErrNoParameters is returned for an update request with an empty body.
var ErrNoParameters error = &ValidationError{Message: "No parameters to update provided"}

var errNoValidParameters error = &ValidationError{Message: "No valid parameters to update provided"}
