package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrEmailNotSet is returned when a call that requires the caller
	// identity runs before an email address has been configured. No
	// network I/O is attempted in that case.
	ErrEmailNotSet = errors.New("entrez email address is not set")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during
	// a retry backoff wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of Entrez request failures.
type ErrorClass string

const (
	// ErrorClassTransient covers HTTP error statuses in the retriable
	// range (400-599). The range deliberately includes client statuses
	// such as 404: E-utilities intermittently answer overloaded bulk
	// queries with 4xx statuses, so the policy retries the whole band.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassFatal covers connection-level failures and malformed
	// responses. These are never retried.
	ErrorClassFatal ErrorClass = "fatal"

	// ErrorClassConfig covers failed preconditions (missing email).
	ErrorClassConfig ErrorClass = "config"
)

// EntrezError represents a failed E-utilities request with its
// classification.
type EntrezError struct {
	StatusCode int
	Class      ErrorClass
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *EntrezError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entrez %s %s error (status %d): %s: %v",
			e.Endpoint, e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("entrez %s %s error (status %d): %s",
		e.Endpoint, e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *EntrezError) Unwrap() error {
	return e.Err
}

// retriable reports whether err is a transient Entrez failure. Anything
// else (connection errors, protocol errors) aborts immediately.
func retriable(err error) bool {
	var entrezErr *EntrezError
	if errors.As(err, &entrezErr) {
		return entrezErr.Class == ErrorClassTransient
	}
	return false
}
