package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/grovellows/tendertrack/internal/server/auth"
	"github.com/grovellows/tendertrack/internal/server/users"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// authMiddleware validates the bearer token, rejects revoked ones, loads the
// account and hands both to the handler through the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.respondError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		revoked, err := s.revoker.IsRevoked(r.Context(), token)
		if err != nil {
			s.logger.Error(r.Context(), "revocation check failed", "error", err.Error())
			s.respondError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		if revoked {
			s.respondError(w, http.StatusUnauthorized, "Token revoked")
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "Unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func currentUser(r *http.Request) *users.User {
	u, _ := r.Context().Value(userKey).(*users.User)
	return u
}

func currentToken(r *http.Request) string {
	t, _ := r.Context().Value(tokenKey).(string)
	return t
}
