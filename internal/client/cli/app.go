package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/grovellows/tendertrack/internal/client/api"
	"github.com/grovellows/tendertrack/internal/client/config"
	"github.com/grovellows/tendertrack/internal/client/models"
	"github.com/grovellows/tendertrack/internal/client/session"
	"github.com/grovellows/tendertrack/internal/client/store"
	"github.com/grovellows/tendertrack/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionService is the slice of the session manager the CLI uses. Tests
// substitute a fake.
type sessionService interface {
	Status() session.Status
	Token() string
	User() *models.UserProfile
	Restore(ctx context.Context) (session.Status, error)
	Login(ctx context.Context, email string, password []byte) (*session.LoginOutcome, error)
	VerifySecondFactor(ctx context.Context, code string) (*models.UserProfile, error)
	CancelSecondFactor() error
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, user *models.UserProfile) error
}

type App struct {
	config  *config.Config
	session sessionService
	client  api.Client
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerBaseURL, api.WithTimeout(c.RequestTimeout))
	logger := logging.NewSlogLogger(slog.Default())
	sm := session.NewManager(apiClient, db, logger)

	return &App{
		config:  c,
		session: sm,
		client:  apiClient,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Status() == session.StatusAuthenticated
}

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return "(" + u.Email + ")"
	}
	return ""
}

// Run restores any persisted session, then hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	if _, err := a.session.Restore(ctx); err != nil {
		log.Printf("session restore failed: %s", err.Error())
	}
	if a.isLoggedIn() {
		log.Printf("Welcome back, %s", a.session.User().Email)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
