// Package common defines shared constants and sentinel errors used across
// client and server layers of gophtasks. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrorValidation is matched by every validation.Errors value.
	ErrorValidation = errors.New("validation error")

	// ErrorUnauthenticated covers any request that could not be tied to a user.
	ErrorUnauthenticated = errors.New("unauthenticated")
	// ErrorForbidden is returned when a valid actor touches somebody else's record.
	ErrorForbidden = errors.New("forbidden")

	// Auth errors (invalid, malformed or revoked token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidCredentials means the email/password pair did not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
