package repository

import (
	"context"
	"database/sql"
	"errors"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/permission/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a permission repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// RoleExists reports whether role has a row in the roles table.
func (r *PostgresRepository) RoleExists(ctx context.Context, role accountdomain.Role) (bool, error) {
	var name string
	err := r.db.QueryRowContext(ctx, "SELECT name FROM roles WHERE name = $1", string(role)).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetPermissionsByRole returns all permission tags joined to role.
func (r *PostgresRepository) GetPermissionsByRole(ctx context.Context, role accountdomain.Role) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT permission FROM role_permissions WHERE role = $1 ORDER BY permission", string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, domain.Permission(p))
	}
	return perms, rows.Err()
}
