package repository

import (
	"context"

	"orgtodo/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByOrg(ctx context.Context, orgID string, limit int) ([]*domain.AuditLog, error)
}
