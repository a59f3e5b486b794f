package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grovellows/tendertrack/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error(context.Background(), "encoding response", "error", err.Error())
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError translates service sentinels into HTTP statuses. The
// login handler does its own mapping for the richer auth outcomes.
func (s *Server) respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked):
		s.respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrorConflict):
		s.respondError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, common.ErrAccountLocked):
		s.respondError(w, http.StatusLocked, "Account temporarily locked")
	case errors.Is(err, common.ErrInvalidMFACode):
		s.respondError(w, http.StatusUnauthorized, "Invalid MFA code")
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		s.respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
