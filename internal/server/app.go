// Package server initializes and runs the tendertrack backend: it wires the
// PostgreSQL repositories, the Redis-backed token revocation list and the
// HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/grovellows/tendertrack/internal/logging"
	"github.com/grovellows/tendertrack/internal/server/auth"
	"github.com/grovellows/tendertrack/internal/server/config"
	"github.com/grovellows/tendertrack/internal/server/httpapi"
	"github.com/grovellows/tendertrack/internal/server/shared/db"
	"github.com/grovellows/tendertrack/internal/server/tenders"
	"github.com/grovellows/tendertrack/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	revoker auth.Revoker
	api     *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(m.Users(), c)
	ts := tenders.NewService(m.Tenders())

	var revoker auth.Revoker
	if c.RedisAddr != "" {
		revoker = auth.NewRedisRevoker(c.RedisAddr)
	} else {
		revoker = auth.NewMemoryRevoker()
	}
	api := httpapi.NewServer(us, ts, revoker, []byte(c.SecretKey), logger)

	return &App{config: c, logger: logger, revoker: revoker, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.api.Run(ctx, app.config.EndpointAddr); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.revoker.Close(); err != nil {
		app.logger.Error(ctx, "closing revoker", "error", err.Error())
	}
}
