package api

import "errors"

var (
	// ErrUnavailable marks transport-level failures: the server could not
	// be reached or did not answer in time.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks credential or token rejection by the server.
	// The wrapped error text carries the server-supplied message when one
	// was present.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks a 404 for an addressed resource.
	ErrNotFound = errors.New("not found")
)
