// Package common defines shared constants and sentinel errors used across
// client and mock backend layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level auth failure (bad credentials, missing token).
	ErrorUnauthorized = errors.New("unauthorized")

	// Caller-side pre-flight checks (register form, penguin form).
	ErrValidation = errors.New("validation error")

	// Session lifecycle errors.
	ErrStaleCredentials    = errors.New("stored credentials rejected")
	ErrOperationInProgress = errors.New("another session operation is in progress")
	ErrNotAuthenticated    = errors.New("not authenticated")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
