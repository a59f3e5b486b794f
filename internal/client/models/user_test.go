package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfileJSON() []byte {
	return []byte(`{
		"id": "u-1",
		"email": "a@x.com",
		"name": "Alice",
		"role": "Project Manager",
		"linkedin_url": "https://linkedin.com/in/alice",
		"notification_preferences": {
			"new_tenders": true,
			"status_changes": false,
			"ipa_tenders": true,
			"project_management": true,
			"daily_digest": false
		}
	}`)
}

func TestDecodeUserProfile_Valid(t *testing.T) {
	u, err := DecodeUserProfile(validProfileJSON())
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, RoleProjectManager, u.Role)
	assert.False(t, u.Notifications.StatusChanges)
	assert.True(t, u.Notifications.IPATenders)
}

func TestDecodeUserProfile_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"missing id", `{"email":"a@x.com","name":"A","role":"Intern"}`},
		{"missing email", `{"id":"u-1","name":"A","role":"Intern"}`},
		{"missing name", `{"id":"u-1","email":"a@x.com","role":"Intern"}`},
		{"unknown role", `{"id":"u-1","email":"a@x.com","name":"A","role":"Astronaut"}`},
		{"empty role", `{"id":"u-1","email":"a@x.com","name":"A"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := DecodeUserProfile([]byte(tc.data))
			assert.Error(t, err)
			assert.Nil(t, u)
		})
	}
}

func TestDefaultNotificationPreferences_AllOn(t *testing.T) {
	p := DefaultNotificationPreferences()
	assert.True(t, p.NewTenders)
	assert.True(t, p.StatusChanges)
	assert.True(t, p.IPATenders)
	assert.True(t, p.ProjectManagement)
	assert.True(t, p.DailyDigest)
}
