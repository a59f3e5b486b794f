// Package common defines shared constants and sentinel errors used across
// client and server layers of tendertrack. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorConflict     = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Account lockout after repeated failed logins.
	ErrAccountLocked = errors.New("account temporarily locked")

	// Second-factor errors.
	ErrMFARequired    = errors.New("second factor required")
	ErrInvalidMFACode = errors.New("invalid second factor code")
)
