package session

import "errors"

var (
	// ErrAuthenticationFailed marks rejected credentials or a server-side
	// rejection during login. The wrapped text carries the server message
	// when one was supplied.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidSecondFactor marks a wrong or expired second-factor code.
	ErrInvalidSecondFactor = errors.New("invalid second factor")

	// ErrInvalidState marks an operation called while the session is not
	// in a compatible state.
	ErrInvalidState = errors.New("invalid session state")

	// ErrPersistenceFailure marks an unreadable or unwritable durable
	// store. Reads recover by treating the data as absent; writes roll
	// the in-memory state back.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrTransportFailure marks a network failure or timeout. No retry is
	// attempted here.
	ErrTransportFailure = errors.New("transport failure")
)
