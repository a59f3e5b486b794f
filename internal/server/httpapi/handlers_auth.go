package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/grovellows/tendertrack/internal/common"
	"github.com/grovellows/tendertrack/internal/server/users"
)

type userPayload struct {
	ID            string                        `json:"id"`
	Email         string                        `json:"email"`
	Name          string                        `json:"name"`
	Role          string                        `json:"role"`
	LinkedInURL   string                        `json:"linkedin_url,omitempty"`
	Notifications users.NotificationPreferences `json:"notification_preferences"`
	CreatedAt     time.Time                     `json:"created_at"`
}

func toUserPayload(u *users.User) userPayload {
	return userPayload{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		LinkedInURL:   u.LinkedInURL,
		Notifications: u.Notifications,
		CreatedAt:     u.CreatedAt,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfa_code"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        userPayload `json:"user"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			s.respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		if errors.Is(err, common.ErrorInternal) {
			s.respondServiceError(r.Context(), w, err)
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password, "")
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	s.respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		User:        toUserPayload(result.User),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password, req.MFACode)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrMFARequired):
			// not a failure: the client should ask for a code and retry
			s.respondJSON(w, http.StatusOK, map[string]bool{"mfa_required": true})
		case errors.Is(err, common.ErrorUnauthorized):
			s.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, common.ErrInvalidMFACode):
			s.respondError(w, http.StatusUnauthorized, "Invalid MFA code")
		case errors.Is(err, common.ErrAccountLocked):
			s.respondError(w, http.StatusLocked, "Account temporarily locked")
		default:
			s.respondServiceError(r.Context(), w, err)
		}
		return
	}

	s.logger.Info(r.Context(), "login", "user_id", result.User.ID)
	s.respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		User:        toUserPayload(result.User),
	})
}

// handleLogout puts the presented token on the revocation list for the rest
// of its natural lifetime.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.revoker.Revoke(r.Context(), currentToken(r), s.users.TokenValidity()); err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, toUserPayload(currentUser(r)))
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs users.NotificationPreferences
	if err := decodeBody(r, &prefs); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.users.UpdatePreferences(r.Context(), currentUser(r).ID, prefs)
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toUserPayload(updated))
}

func (s *Server) handleUpdateLinkedIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LinkedInURL string `json:"linkedin_url"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.users.UpdateLinkedIn(r.Context(), currentUser(r).ID, req.LinkedInURL)
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toUserPayload(updated))
}

func (s *Server) handleMFAStatus(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"mfa_enabled":            u.MFAEnabled,
		"backup_codes_remaining": len(u.BackupCodes),
	})
}

func (s *Server) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	enrollment, err := s.users.SetupMFA(r.Context(), currentUser(r).ID)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			s.respondError(w, http.StatusBadRequest, "MFA already enabled")
			return
		}
		s.respondServiceError(r.Context(), w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"secret":        enrollment.Secret,
		"provision_uri": enrollment.ProvisionURI,
		"backup_codes":  enrollment.BackupCodes,
	})
}

func (s *Server) handleMFAVerifySetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.users.ConfirmMFA(r.Context(), currentUser(r).ID, req.Code); err != nil {
		if errors.Is(err, common.ErrInvalidMFACode) {
			s.respondError(w, http.StatusBadRequest, "Invalid MFA code")
			return
		}
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "MFA enabled"})
}

func (s *Server) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.users.DisableMFA(r.Context(), currentUser(r).ID, req.Password); err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "MFA disabled"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.respondServiceError(r.Context(), w, err)
		return
	}

	payload := make([]userPayload, 0, len(list))
	for i := range list {
		payload = append(payload, toUserPayload(&list[i]))
	}
	s.respondJSON(w, http.StatusOK, payload)
}
