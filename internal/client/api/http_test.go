package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grovellows/tendertrack/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileJSON() map[string]any {
	return map[string]any{
		"id":    "u-1",
		"email": "a@x.com",
		"name":  "Alice",
		"role":  "Project Manager",
		"notification_preferences": map[string]bool{
			"new_tenders": true,
		},
	}
}

func TestLogin_DirectSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@x.com", body["email"])
		assert.Equal(t, "secret", body["password"])
		assert.Empty(t, body["mfa_code"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "T",
			"token_type":   "bearer",
			"user":         profileJSON(),
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(context.Background(), "a@x.com", []byte("secret"), "")
	require.NoError(t, err)
	assert.False(t, res.MFARequired)
	assert.Equal(t, "T", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "u-1", res.User.ID)
}

func TestLogin_MFARequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"mfa_required": true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(context.Background(), "a@x.com", []byte("secret"), "")
	require.NoError(t, err)
	assert.True(t, res.MFARequired)
	assert.Empty(t, res.Token)
	assert.Nil(t, res.User)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(context.Background(), "a@x.com", []byte("wrong"), "")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestLogin_ServerUnreachable(t *testing.T) {
	// Point at a closed port.
	c := NewHTTPClient("http://127.0.0.1:1")
	res, err := c.Login(context.Background(), "a@x.com", []byte("secret"), "")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_InvalidProfileFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "T",
			"user":         map[string]any{"id": "u-1"}, // missing email/name/role
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(context.Background(), "a@x.com", []byte("secret"), "")
	assert.Nil(t, res)
	assert.Error(t, err)
}

func TestLogout_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	require.NoError(t, c.Logout(context.Background(), "T"))
	assert.Equal(t, "Bearer T", gotAuth)
}

func TestListTenders_FilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenders", r.URL.Path)
		assert.Equal(t, "New", r.URL.Query().Get("status"))
		assert.Equal(t, "IPA", r.URL.Query().Get("category"))
		assert.Equal(t, "Berlin", r.URL.Query().Get("search"))

		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "t-1", "title": "Neubau Wohnquartier", "status": "New"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	tenders, err := c.ListTenders(context.Background(), "T", models.TenderFilter{
		Status:   "New",
		Category: "IPA",
		Search:   "Berlin",
	})
	require.NoError(t, err)
	require.Len(t, tenders, 1)
	assert.Equal(t, "t-1", tenders[0].ID)
}

func TestGetTender_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Tender not found"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.GetTender(context.Background(), "T", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
