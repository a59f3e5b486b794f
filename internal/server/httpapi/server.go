// Package httpapi exposes the tendertrack services over the JSON REST API
// the mobile and CLI clients consume.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/grovellows/tendertrack/internal/logging"
	"github.com/grovellows/tendertrack/internal/server/auth"
	"github.com/grovellows/tendertrack/internal/server/tenders"
	"github.com/grovellows/tendertrack/internal/server/users"
)

type Server struct {
	users     *users.Service
	tenders   *tenders.Service
	revoker   auth.Revoker
	jwtSecret []byte
	logger    logging.Logger
}

func NewServer(us *users.Service, ts *tenders.Service, revoker auth.Revoker, secretKey []byte, logger logging.Logger) *Server {
	return &Server{
		users:     us,
		tenders:   ts,
		revoker:   revoker,
		jwtSecret: secretKey,
		logger:    logger,
	}
}

// Run serves the API on addr until the context is cancelled, then drains
// in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Router builds the full route table. Everything except register and login
// sits behind the bearer-token middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)

	protected.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/auth/preferences", s.handleUpdatePreferences).Methods(http.MethodPut)
	protected.HandleFunc("/auth/linkedin", s.handleUpdateLinkedIn).Methods(http.MethodPut)

	protected.HandleFunc("/auth/mfa/status", s.handleMFAStatus).Methods(http.MethodGet)
	protected.HandleFunc("/auth/mfa/setup", s.handleMFASetup).Methods(http.MethodPost)
	protected.HandleFunc("/auth/mfa/verify-setup", s.handleMFAVerifySetup).Methods(http.MethodPost)
	protected.HandleFunc("/auth/mfa/disable", s.handleMFADisable).Methods(http.MethodPost)

	protected.HandleFunc("/tenders", s.handleListTenders).Methods(http.MethodGet)
	protected.HandleFunc("/tenders", s.handleCreateTender).Methods(http.MethodPost)
	protected.HandleFunc("/tenders/{id}", s.handleGetTender).Methods(http.MethodGet)
	protected.HandleFunc("/tenders/{id}", s.handleUpdateTender).Methods(http.MethodPut)

	protected.HandleFunc("/favorites", s.handleListFavorites).Methods(http.MethodGet)
	protected.HandleFunc("/favorites/{id}", s.handleAddFavorite).Methods(http.MethodPost)
	protected.HandleFunc("/favorites/{id}", s.handleRemoveFavorite).Methods(http.MethodDelete)

	protected.HandleFunc("/share", s.handleShare).Methods(http.MethodPost)
	protected.HandleFunc("/shares", s.handleListShares).Methods(http.MethodGet)

	protected.HandleFunc("/users", s.handleListUsers).Methods(http.MethodGet)

	return r
}
