// Package models defines client-side data models used by the tendertrack
// client. Server payloads are validated here, at the deserialization
// boundary: records missing required fields are rejected rather than
// propagated half-empty into persisted state.
package models

import (
	"encoding/json"
	"fmt"
)

// Roles known to the client. The server owns the authoritative list;
// the client rejects anything it does not recognize.
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

// NotificationPreferences is the per-user notification opt-in set.
type NotificationPreferences struct {
	NewTenders        bool `json:"new_tenders"`
	StatusChanges     bool `json:"status_changes"`
	IPATenders        bool `json:"ipa_tenders"`
	ProjectManagement bool `json:"project_management"`
	DailyDigest       bool `json:"daily_digest"`
}

// DefaultNotificationPreferences returns the preference set assigned to new
// accounts: everything on.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		NewTenders:        true,
		StatusChanges:     true,
		IPATenders:        true,
		ProjectManagement: true,
		DailyDigest:       true,
	}
}

// UserProfile is the server-defined identity record cached locally for
// display. The session layer stores and retrieves it as a unit.
type UserProfile struct {
	ID            string                  `json:"id"`
	Email         string                  `json:"email"`
	Name          string                  `json:"name"`
	Role          string                  `json:"role"`
	LinkedInURL   string                  `json:"linkedin_url,omitempty"`
	Notifications NotificationPreferences `json:"notification_preferences"`
}

// Validate checks that the profile carries every field the client depends on.
func (u *UserProfile) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user profile: missing id")
	}
	if u.Email == "" {
		return fmt.Errorf("user profile: missing email")
	}
	if u.Name == "" {
		return fmt.Errorf("user profile: missing name")
	}
	if _, ok := knownRoles[u.Role]; !ok {
		return fmt.Errorf("user profile: unknown role %q", u.Role)
	}
	return nil
}

// DecodeUserProfile unmarshals and validates a serialized profile.
// Invalid payloads fail closed.
func DecodeUserProfile(data []byte) (*UserProfile, error) {
	var u UserProfile
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("user profile: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}
