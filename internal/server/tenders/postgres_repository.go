package tenders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grovellows/tendertrack/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const tenderColumns = `id, title, description, budget, deadline, location,
	project_type, contracting_authority, participants, contact_details,
	tender_date, category, platform_source, platform_url, status, notes,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTender(row rowScanner) (*Tender, error) {
	t := &Tender{}
	var participants, contacts []byte

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Budget, &t.Deadline,
		&t.Location, &t.ProjectType, &t.ContractingAuthority, &participants,
		&contacts, &t.TenderDate, &t.Category, &t.PlatformSource,
		&t.PlatformURL, &t.Status, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &t.Participants); err != nil {
			return nil, fmt.Errorf("decoding participants: %v", err)
		}
	}
	if len(contacts) > 0 {
		if err := json.Unmarshal(contacts, &t.ContactDetails); err != nil {
			return nil, fmt.Errorf("decoding contact details: %v", err)
		}
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Tender, error) {

	query := `SELECT ` + tenderColumns + ` FROM tenders`
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Location != "" {
		add("location ILIKE $%d", "%"+filter.Location+"%")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return collectTenders(rows)
}

func collectTenders(rows *sql.Rows) ([]Tender, error) {
	var result []Tender
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id = $1`
	return scanTender(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, tender *Tender) (*Tender, error) {

	participants, err := json.Marshal(tender.Participants)
	if err != nil {
		return nil, err
	}
	contacts, err := json.Marshal(tender.ContactDetails)
	if err != nil {
		return nil, err
	}

	tender.ID = uuid.NewString()

	query :=
		`INSERT INTO tenders (id, title, description, budget, deadline, location,
		        project_type, contracting_authority, participants, contact_details,
		        tender_date, category, platform_source, platform_url, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		tender.ID, tender.Title, tender.Description, tender.Budget,
		tender.Deadline, tender.Location, tender.ProjectType,
		tender.ContractingAuthority, participants, contacts,
		tender.TenderDate, tender.Category, tender.PlatformSource,
		tender.PlatformURL, tender.Status, tender.Notes).
		Scan(&tender.CreatedAt, &tender.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return tender, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenders SET status = $1, notes = $2, updated_at = now() WHERE id = $3`,
		status, notes, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, userID, tenderID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, tender_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, tender_id) DO NOTHING`,
		userID, tenderID)
	return err
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, tenderID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND tender_id = $2`,
		userID, tenderID)
	return err
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID string) ([]Tender, error) {
	query := `SELECT ` + prefixColumns("t", tenderColumns) + `
		 FROM tenders t
		 JOIN favorites f ON f.tender_id = t.id
		 WHERE f.user_id = $1
		 ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	return collectTenders(rows)
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func (r *PostgresRepository) CreateShare(ctx context.Context, share *Share) (*Share, error) {

	sharedWith, err := json.Marshal(share.SharedWith)
	if err != nil {
		return nil, err
	}

	share.ID = uuid.NewString()

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO shares (id, tender_id, shared_by, shared_with, message)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		share.ID, share.TenderID, share.SharedBy, sharedWith, share.Message).
		Scan(&share.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return share, nil
}

func (r *PostgresRepository) ListShares(ctx context.Context, userID, email string) ([]Share, error) {
	query :=
		`SELECT id, tender_id, shared_by, shared_with, message, created_at
		 FROM shares
		 WHERE shared_by = $1 OR shared_with @> $2
		 ORDER BY created_at DESC`

	recipient, err := json.Marshal([]string{email})
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, userID, recipient)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []Share
	for rows.Next() {
		var s Share
		var sharedWith []byte
		if err := rows.Scan(&s.ID, &s.TenderID, &s.SharedBy, &sharedWith, &s.Message, &s.CreatedAt); err != nil {
			return nil, err
		}
		if len(sharedWith) > 0 {
			if err := json.Unmarshal(sharedWith, &s.SharedWith); err != nil {
				return nil, fmt.Errorf("decoding recipients: %v", err)
			}
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
