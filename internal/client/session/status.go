package session

// Status is the externally visible state of the session machine.
type Status int

const (
	// StatusUnknown is the initial state before Restore has run.
	StatusUnknown Status = iota

	// StatusRestoring is visible while the persisted session is being read.
	StatusRestoring

	// StatusUnauthenticated means no credential is held.
	StatusUnauthenticated

	// StatusAwaitingSecondFactor means the server demanded an MFA code and
	// a pending credential is held in memory.
	StatusAwaitingSecondFactor

	// StatusAuthenticated means a token and user profile are committed,
	// in memory and in the durable store.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusRestoring:
		return "restoring"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAwaitingSecondFactor:
		return "awaiting second factor"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}
