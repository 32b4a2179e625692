package api

import "errors"

var (
	// ErrLoginRequired indicates a missing access token
	ErrLoginRequired = errors.New("login required")

	// ErrAuthFail indicates rejected credentials
	ErrAuthFail = errors.New("authorization failed")

	// ErrNotAvailable indicates a value that is not (yet) available
	ErrNotAvailable = errors.New("not available")

	// ErrMustRetry indicates a cached value that must be re-fetched
	ErrMustRetry = errors.New("must retry")

	// ErrTimeout indicates a timed-out operation
	ErrTimeout = errors.New("timeout")
)
