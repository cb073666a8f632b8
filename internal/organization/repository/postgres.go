package repository

import (
	"context"
	"database/sql"
	"errors"

	"orgtodo/internal/organization/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orgColumns = "id, name, created_at, updated_at"

// GetByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orgColumns+" FROM organizations WHERE id = $1", id)
	o, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// List returns all organizations ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orgColumns+" FROM organizations ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// Create persists the organization. The organization must have ID set; it is not assigned here.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Organization) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO organizations (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		o.ID, o.Name, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

// Update replaces the organization record.
func (r *PostgresRepository) Update(ctx context.Context, o *domain.Organization) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE organizations SET name = $2, updated_at = $3 WHERE id = $1",
		o.ID, o.Name, o.UpdatedAt,
	)
	return err
}

// Delete removes the organization by id. Deleting a missing row is not an error here;
// services check existence first to report NotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM organizations WHERE id = $1", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	var o domain.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
