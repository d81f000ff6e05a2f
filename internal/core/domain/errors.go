package domain

import "errors"

var (
	// ErrInvalidRequest marks malformed or incomplete input rejected before
	// any store call is made.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidCredentials is the single, deliberately non-specific failure
	// for a bad username or password. Callers must not be able to tell the
	// two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by the store when no identity matches.
	// The credential verifier collapses it into ErrInvalidCredentials.
	ErrUserNotFound = errors.New("user not found")

	ErrUserExists   = errors.New("user already exists")
	ErrRoleNotFound = errors.New("role does not exist")

	// ErrValidation wraps the store's joined validation messages, e.g. a
	// rejected password.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidToken covers every token verification failure: bad
	// signature, expired, wrong issuer or audience.
	ErrInvalidToken = errors.New("invalid token")
)
