package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/apperror"
	"orgtodo/internal/audit"
	"orgtodo/internal/db"
	"orgtodo/internal/organization/domain"
	"orgtodo/internal/platform/authz"
)

// OrganizationRepo is the minimal organization repository needed by the service.
type OrganizationRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
	Create(ctx context.Context, o *domain.Organization) error
	Update(ctx context.Context, o *domain.Organization) error
	Delete(ctx context.Context, id string) error
}

// Service implements the organization use cases. Every operation except Get
// is restricted to superadmins.
type Service struct {
	repo  OrganizationRepo
	audit *audit.Logger
}

// NewService returns an organization Service. auditLogger may be nil.
func NewService(repo OrganizationRepo, auditLogger *audit.Logger) *Service {
	return &Service{repo: repo, audit: auditLogger}
}

// Create creates a new organization. Only superadmins may create
// organizations; a duplicate name is reported as a 400 conflict.
func (s *Service) Create(ctx context.Context, actor *authz.Actor, name string) (*domain.Organization, error) {
	if name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	org, err := domain.NewOrganization(uuid.New().String(), name)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if err := s.repo.Create(ctx, org); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.ConflictWithStatus("organization name already taken", 400)
		}
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, org.ID, actor.AccountID, "create", "Organization", org.Name)
	return org, nil
}

// Update renames an existing organization (whole-object replacement).
func (s *Service) Update(ctx context.Context, actor *authz.Actor, id, name string) (*domain.Organization, error) {
	if name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if existing == nil {
		return nil, apperror.NotFound("organization")
	}
	org, err := domain.NewOrganization(existing.ID, name)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	org.CreatedAt = existing.CreatedAt
	org.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, org); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.ConflictWithStatus("organization name already taken", 400)
		}
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, org.ID, actor.AccountID, "update", "Organization", org.Name)
	return org, nil
}

// Delete removes the organization by id. Deleting a missing organization
// returns NotFound on every call, never a silent success.
func (s *Service) Delete(ctx context.Context, actor *authz.Actor, id string) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.Unexpected(err)
	}
	if existing == nil {
		return apperror.NotFound("organization")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, id, actor.AccountID, "delete", "Organization", existing.Name)
	return nil
}

// List returns all organizations. An empty result is a valid empty list.
func (s *Service) List(ctx context.Context, actor *authz.Actor) ([]*domain.Organization, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if orgs == nil {
		orgs = []*domain.Organization{}
	}
	return orgs, nil
}

// Get returns a single organization. Non-superadmins may only read their own.
func (s *Service) Get(ctx context.Context, actor *authz.Actor, id string) (*domain.Organization, error) {
	if !authz.CanAccessOrganization(actor, id) {
		return nil, apperror.Forbidden("cannot access this organization")
	}
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if org == nil {
		return nil, apperror.NotFound("organization")
	}
	return org, nil
}

func requireSuperAdmin(actor *authz.Actor) error {
	if actor == nil || actor.Role != accountdomain.RoleSuperAdmin {
		return apperror.Forbidden("superadmin required")
	}
	return nil
}
