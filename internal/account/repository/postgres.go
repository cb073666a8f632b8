package repository

import (
	"context"
	"database/sql"
	"errors"

	"orgtodo/internal/account/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = "id, user_id, name, password_hash, org_id, role, created_at, updated_at"

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)
	return nilOnNoRows(scanAccount(row))
}

// GetByUserID returns the account with the given login handle, or nil if not found.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE user_id = $1", userID)
	return nilOnNoRows(scanAccount(row))
}

// ListByOrg returns all accounts belonging to orgID ordered by user_id.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM accounts WHERE org_id = $1 ORDER BY user_id", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Create persists the account. The account must have ID set; it is not assigned here.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	orgID := sql.NullString{String: a.OrgID, Valid: a.OrgID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, password_hash, org_id, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.Name, a.PasswordHash, orgID, string(a.Role), a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// Update replaces the account record (whole-object replacement).
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Account) error {
	orgID := sql.NullString{String: a.OrgID, Valid: a.OrgID != ""}
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET user_id = $2, name = $3, password_hash = $4, org_id = $5, role = $6, updated_at = $7
		 WHERE id = $1`,
		a.ID, a.UserID, a.Name, a.PasswordHash, orgID, string(a.Role), a.UpdatedAt,
	)
	return err
}

// Delete removes the account by id. Services check existence first to report NotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a     domain.Account
		orgID sql.NullString
		role  string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.PasswordHash, &orgID, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if orgID.Valid {
		a.OrgID = orgID.String
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func nilOnNoRows(a *domain.Account, err error) (*domain.Account, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}
