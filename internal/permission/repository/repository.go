package repository

import (
	"context"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/permission/domain"
)

// Repository defines persistence for the role→permission configuration.
type Repository interface {
	// RoleExists reports whether the role has a configuration row. A defined
	// Role enum value with no row is a server misconfiguration.
	RoleExists(ctx context.Context, role accountdomain.Role) (bool, error)
	// GetPermissionsByRole returns all permission tags granted to role.
	GetPermissionsByRole(ctx context.Context, role accountdomain.Role) ([]domain.Permission, error)
}
