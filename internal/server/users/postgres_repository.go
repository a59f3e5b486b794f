package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grovellows/tendertrack/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const userColumns = `id, email, name, role, hashed_password, linkedin_url,
	notification_preferences, mfa_enabled, mfa_secret, backup_codes,
	failed_login_attempts, locked_until, created_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var prefs, backupCodes []byte
	var lockedUntil sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role,
		&user.HashedPassword, &user.LinkedInURL, &prefs,
		&user.MFAEnabled, &user.MFASecret, &backupCodes,
		&user.FailedLoginAttempts, &lockedUntil, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	if err := json.Unmarshal(prefs, &user.Notifications); err != nil {
		return nil, fmt.Errorf("decoding preferences: %v", err)
	}
	if len(backupCodes) > 0 {
		if err := json.Unmarshal(backupCodes, &user.BackupCodes); err != nil {
			return nil, fmt.Errorf("decoding backup codes: %v", err)
		}
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		user.LockedUntil = &t
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	prefs, err := json.Marshal(user.Notifications)
	if err != nil {
		return nil, err
	}
	backupCodes, err := json.Marshal(user.BackupCodes)
	if err != nil {
		return nil, err
	}

	user.ID = uuid.NewString()

	query :=
		`INSERT INTO users (id, email, name, role, hashed_password, linkedin_url,
		        notification_preferences, mfa_enabled, mfa_secret, backup_codes)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.HashedPassword,
		user.LinkedInURL, prefs, user.MFAEnabled, user.MFASecret, backupCodes).
		Scan(&user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query := `SELECT id, email, name, role, linkedin_url FROM users ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.LinkedInURL); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) UpdatePreferences(ctx context.Context, id string, prefs NotificationPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET notification_preferences = $1 WHERE id = $2`, data, id)
	return err
}

func (r *PostgresRepository) UpdateLinkedIn(ctx context.Context, id string, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET linkedin_url = $1 WHERE id = $2`, url, id)
	return err
}

func (r *PostgresRepository) UpdateLoginState(ctx context.Context, id string, failedAttempts int, lockedUntil *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET failed_login_attempts = $1, locked_until = $2 WHERE id = $3`,
		failedAttempts, lockedUntil, id)
	return err
}

func (r *PostgresRepository) UpdateMFA(ctx context.Context, id string, enabled bool, secret string, backupCodes []string) error {
	data, err := json.Marshal(backupCodes)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = $1, mfa_secret = $2, backup_codes = $3 WHERE id = $4`,
		enabled, secret, data, id)
	return err
}
