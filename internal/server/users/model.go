package users

import "time"

// Roles assignable at registration.
const (
	RoleProjectManager       = "Project Manager"
	RoleSeniorProjectManager = "Senior Project Manager"
	RoleIntern               = "Intern"
	RoleHR                   = "HR"
	RolePartner              = "Partner"
	RoleDirector             = "Director"
)

var knownRoles = map[string]struct{}{
	RoleProjectManager:       {},
	RoleSeniorProjectManager: {},
	RoleIntern:               {},
	RoleHR:                   {},
	RolePartner:              {},
	RoleDirector:             {},
}

// NotificationPreferences is the per-user notification opt-in set, stored as
// jsonb.
type NotificationPreferences struct {
	NewTenders        bool `json:"new_tenders"`
	StatusChanges     bool `json:"status_changes"`
	IPATenders        bool `json:"ipa_tenders"`
	ProjectManagement bool `json:"project_management"`
	DailyDigest       bool `json:"daily_digest"`
}

// DefaultNotificationPreferences is assigned to new accounts: everything on.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		NewTenders:        true,
		StatusChanges:     true,
		IPATenders:        true,
		ProjectManagement: true,
		DailyDigest:       true,
	}
}

type User struct {
	ID             string
	Email          string
	Name           string
	Role           string
	HashedPassword string
	LinkedInURL    string
	Notifications  NotificationPreferences

	// Second factor. MFASecret is set at setup time; MFAEnabled flips only
	// after the user proves possession with a valid code.
	MFAEnabled  bool
	MFASecret   string
	BackupCodes []string // SHA-256 digests, single use

	// Lockout bookkeeping.
	FailedLoginAttempts int
	LockedUntil         *time.Time

	CreatedAt time.Time
}
