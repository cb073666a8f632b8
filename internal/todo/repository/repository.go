package repository

import (
	"context"

	"orgtodo/internal/todo/domain"
)

// Repository defines persistence for todo items.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.TodoItem, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.TodoItem, error)
	Create(ctx context.Context, item *domain.TodoItem) error
	Update(ctx context.Context, item *domain.TodoItem) error
	Delete(ctx context.Context, id string) error
}
