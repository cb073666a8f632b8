package repository

import (
	"context"
	"database/sql"
	"errors"

	"orgtodo/internal/todo/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a todo repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const todoColumns = "id, title, description, status, org_id, created_at, updated_at"

// GetByID returns the todo item for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.TodoItem, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+todoColumns+" FROM todo_items WHERE id = $1", id)
	item, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// ListByOrg returns all todo items belonging to orgID, newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.TodoItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+todoColumns+" FROM todo_items WHERE org_id = $1 ORDER BY created_at DESC", orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.TodoItem
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create persists the todo item. The item must have ID set; it is not assigned here.
func (r *PostgresRepository) Create(ctx context.Context, item *domain.TodoItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todo_items (id, title, description, status, org_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Title, item.Description, string(item.Status), item.OrgID, item.CreatedAt, item.UpdatedAt,
	)
	return err
}

// Update replaces the todo item record (whole-object replacement).
func (r *PostgresRepository) Update(ctx context.Context, item *domain.TodoItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE todo_items
		 SET title = $2, description = $3, status = $4, org_id = $5, updated_at = $6
		 WHERE id = $1`,
		item.ID, item.Title, item.Description, string(item.Status), item.OrgID, item.UpdatedAt,
	)
	return err
}

// Delete removes the todo item by id. Services check existence first to report NotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM todo_items WHERE id = $1", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.TodoItem, error) {
	var (
		item   domain.TodoItem
		status string
	)
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &status, &item.OrgID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Status = domain.Status(status)
	return &item, nil
}
