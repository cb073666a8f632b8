package service

import (
	"context"
	"fmt"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/apperror"
	"orgtodo/internal/permission/domain"
)

// PermissionRepo is the minimal permission repository needed by the service.
type PermissionRepo interface {
	RoleExists(ctx context.Context, role accountdomain.Role) (bool, error)
	GetPermissionsByRole(ctx context.Context, role accountdomain.Role) ([]domain.Permission, error)
}

// Service resolves a role to its granted permission set. No caching; every
// call hits the store.
type Service struct {
	repo PermissionRepo
}

// NewService returns a permission Service backed by repo.
func NewService(repo PermissionRepo) *Service {
	return &Service{repo: repo}
}

// GetPermissions returns the permission tags granted to role. A role enum
// value with no configuration row is a server misconfiguration, not a user
// error, and is reported as Unexpected.
func (s *Service) GetPermissions(ctx context.Context, role accountdomain.Role) ([]domain.Permission, error) {
	exists, err := s.repo.RoleExists(ctx, role)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if !exists {
		return nil, apperror.Unexpected(fmt.Errorf("role %q has no configuration row", role))
	}
	perms, err := s.repo.GetPermissionsByRole(ctx, role)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return perms, nil
}
