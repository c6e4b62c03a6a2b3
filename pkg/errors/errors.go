// Package errors provides common domain error types for the recall CLI.
//
// This package defines sentinel errors for conditions like "not found" or
// "remote unavailable" that can be used across all packages. Using typed
// errors enables consistent error handling patterns with errors.Is() checks.
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates the requested recording was not found in the local cache.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")

	// ErrUnavailable indicates the remote recording service could not be reached.
	ErrUnavailable = errors.New("remote service unavailable")

	// ErrNotAuthenticated indicates no stored credentials are available.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable reports whether any error in err's chain is ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsNotAuthenticated reports whether any error in err's chain is ErrNotAuthenticated.
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}
