package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grovellows/tendertrack/internal/server/migrations"
	"github.com/grovellows/tendertrack/internal/server/tenders"
	"github.com/grovellows/tendertrack/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db      *sql.DB
	users   users.Repository
	tenders tenders.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Tenders() tenders.Repository {
	return m.tenders
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	userRepo, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	tenderRepo, err := tenders.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("tender repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:      db,
		users:   userRepo,
		tenders: tenderRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
