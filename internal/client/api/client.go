// Package api contains the REST client for the tendertrack backend.
// The Client interface is the single seam between the client application
// and the network; tests substitute a fake.
package api

import (
	"context"

	"github.com/grovellows/tendertrack/internal/client/models"
)

// LoginResult is the outcome of a credential submission. Exactly one of the
// two shapes is populated: either MFARequired is true and Token/User are
// empty, or Token and User are both set.
type LoginResult struct {
	Token       string
	User        *models.UserProfile
	MFARequired bool
}

// Client is the remote API surface consumed by the client application.
// All methods honor context cancellation. Methods other than Login and
// Logout require a bearer token obtained from a completed login.
type Client interface {
	// Login submits credentials, optionally with a second-factor code.
	// Rejected credentials map to ErrUnauthorized; unreachable server
	// maps to ErrUnavailable.
	Login(ctx context.Context, email string, password []byte, mfaCode string) (*LoginResult, error)

	// Logout asks the server to revoke the token. Best-effort from the
	// caller's perspective.
	Logout(ctx context.Context, token string) error

	// Me fetches the current profile for the token's user.
	Me(ctx context.Context, token string) (*models.UserProfile, error)

	// UpdatePreferences replaces the user's notification preference set
	// and returns the refreshed profile.
	UpdatePreferences(ctx context.Context, token string, prefs models.NotificationPreferences) (*models.UserProfile, error)

	// UpdateLinkedIn sets the user's LinkedIn URL and returns the
	// refreshed profile.
	UpdateLinkedIn(ctx context.Context, token string, url string) (*models.UserProfile, error)

	ListTenders(ctx context.Context, token string, filter models.TenderFilter) ([]models.Tender, error)
	GetTender(ctx context.Context, token string, id string) (*models.Tender, error)
	UpdateTender(ctx context.Context, token string, id string, status, notes string) error

	AddFavorite(ctx context.Context, token string, tenderID string) error
	RemoveFavorite(ctx context.Context, token string, tenderID string) error
	ListFavorites(ctx context.Context, token string) ([]models.Tender, error)

	ShareTender(ctx context.Context, token string, tenderID string, sharedWith []string, message string) error
	ListShares(ctx context.Context, token string) ([]models.Share, error)

	ListUsers(ctx context.Context, token string) ([]models.UserProfile, error)

	Close() error
}
