package users

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)

	UpdatePreferences(ctx context.Context, id string, prefs NotificationPreferences) error
	UpdateLinkedIn(ctx context.Context, id string, url string) error

	// UpdateLoginState records the failed-attempt counter and lockout
	// deadline after a login attempt.
	UpdateLoginState(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error

	// UpdateMFA persists the second-factor configuration, including the
	// remaining backup code digests.
	UpdateMFA(ctx context.Context, id string, enabled bool, secret string, backupCodes []string) error
}
