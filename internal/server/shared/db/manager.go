package db

import (
	"context"
	"database/sql"

	"github.com/grovellows/tendertrack/internal/server/tenders"
	"github.com/grovellows/tendertrack/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Tenders() tenders.Repository
}
