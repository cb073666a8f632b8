package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgtodo/internal/todo/domain"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, func() { db.Close() }
}

func TestGetByID(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, description, status, org_id, created_at, updated_at FROM todo_items WHERE id = $1").
		WithArgs("todo-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "org_id", "created_at", "updated_at"}).
			AddRow("todo-1", "ship release", "cut and publish v1", "in_progress", "org-1", now, now))

	item, err := repo.GetByID(context.Background(), "todo-1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, domain.StatusInProgress, item.Status)
	assert.Equal(t, "org-1", item.OrgID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissingRow(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, title, description, status, org_id, created_at, updated_at FROM todo_items WHERE id = $1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "org_id", "created_at", "updated_at"}))

	item, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOrgNewestFirst(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, description, status, org_id, created_at, updated_at FROM todo_items WHERE org_id = $1 ORDER BY created_at DESC").
		WithArgs("org-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "org_id", "created_at", "updated_at"}).
			AddRow("todo-2", "newer", "d", "not_started", "org-1", now, now).
			AddRow("todo-1", "older", "d", "completed", "org-1", now.Add(-time.Hour), now))

	items, err := repo.ListByOrg(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	item, err := domain.NewTodoItem("todo-1", "ship release", "cut and publish v1", "", "org-1")
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO todo_items (id, title, description, status, org_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`).
		WithArgs(item.ID, item.Title, item.Description, "not_started", item.OrgID, item.CreatedAt, item.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}
