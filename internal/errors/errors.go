package errors

import (
	"errors"
	"fmt"
)

// Common error types for the login service
var (
	// Request validation errors (no store or provider call is made)
	ErrMissingSessionHeader     = errors.New("missing mu-session-id header")
	ErrMissingAuthorizationCode = errors.New("missing authorization code")

	// Authentication errors (authorization-code exchange with the OpenID Provider)
	ErrAuthentication = errors.New("failed to authenticate with the OpenID Provider")

	// Authorization errors (claims are valid but no bestuurseenheid is resolvable)
	ErrNoGroup = errors.New("no bestuurseenheid found for the authenticated user")

	// Session errors
	ErrInvalidSession = errors.New("invalid session")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
