package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orgtodo/internal/account/domain"
	"orgtodo/internal/apperror"
	"orgtodo/internal/audit"
	"orgtodo/internal/db"
	orgdomain "orgtodo/internal/organization/domain"
	"orgtodo/internal/platform/authz"
	"orgtodo/internal/security"
)

// AccountRepo is the minimal account repository needed by the service.
type AccountRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, id string) error
}

// OrgGetter resolves organizations for existence checks.
type OrgGetter interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Organization, error)
}

// Service implements the account use cases. Every org-scoped operation
// re-verifies the actor's organization access, independent of the
// permission middleware.
type Service struct {
	accounts AccountRepo
	orgs     OrgGetter
	hasher   *security.Hasher
	audit    *audit.Logger
}

// NewService returns an account Service. auditLogger may be nil.
func NewService(accounts AccountRepo, orgs OrgGetter, hasher *security.Hasher, auditLogger *audit.Logger) *Service {
	return &Service{accounts: accounts, orgs: orgs, hasher: hasher, audit: auditLogger}
}

// CreateParams carries the input for Create.
type CreateParams struct {
	UserID   string
	Name     string
	Password string
	OrgID    string
	Role     string
}

// Create registers a new account. The user id must be free, the target
// organization must exist, and the actor must be allowed to act on it.
// The free-user-id check runs before any password hashing.
func (s *Service) Create(ctx context.Context, actor *authz.Actor, p CreateParams) (*domain.Account, error) {
	role, err := domain.ParseRole(p.Role)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if role == domain.RoleSuperAdmin {
		if actor == nil || actor.Role != domain.RoleSuperAdmin {
			return nil, apperror.Forbidden("superadmin required to grant superadmin")
		}
		p.OrgID = ""
	} else if !authz.CanAccessOrganization(actor, p.OrgID) {
		return nil, apperror.Forbidden("cannot manage accounts in this organization")
	}

	existing, err := s.accounts.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user id already taken")
	}
	if p.OrgID != "" {
		org, err := s.orgs.GetByID(ctx, p.OrgID)
		if err != nil {
			return nil, apperror.Unexpected(err)
		}
		if org == nil {
			return nil, apperror.NotFound("organization")
		}
	}
	if p.Password == "" {
		return nil, apperror.BadRequest("password is required")
	}
	hash, err := s.hasher.Hash([]byte(p.Password))
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	acct, err := domain.NewAccount(uuid.New().String(), p.UserID, p.Name, hash, p.OrgID, role)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("user id already taken")
		}
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, acct.OrgID, actorID(actor), "create", "Account", acct.UserID)
	return acct, nil
}

// UpdateParams carries the input for Update. Password is optional; when
// empty the stored hash is kept.
type UpdateParams struct {
	UserID   string
	Name     string
	Password string
}

// Update replaces the mutable fields of an account. A changed user id is
// re-checked for uniqueness.
func (s *Service) Update(ctx context.Context, actor *authz.Actor, id string, p UpdateParams) (*domain.Account, error) {
	existing, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if existing == nil {
		return nil, apperror.NotFound("account")
	}
	if !canManageAccount(actor, existing) {
		return nil, apperror.Forbidden("cannot manage accounts in this organization")
	}
	if p.UserID != existing.UserID {
		other, err := s.accounts.GetByUserID(ctx, p.UserID)
		if err != nil {
			return nil, apperror.Unexpected(err)
		}
		if other != nil {
			return nil, apperror.Conflict("user id already taken")
		}
	}
	hash := existing.PasswordHash
	if p.Password != "" {
		hash, err = s.hasher.Hash([]byte(p.Password))
		if err != nil {
			return nil, apperror.Unexpected(err)
		}
	}
	acct, err := domain.NewAccount(existing.ID, p.UserID, p.Name, hash, existing.OrgID, existing.Role)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	acct.CreatedAt = existing.CreatedAt
	acct.UpdatedAt = time.Now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("user id already taken")
		}
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, acct.OrgID, actorID(actor), "update", "Account", acct.UserID)
	return acct, nil
}

// UpdateRole changes an account's role. Granting superadmin requires a
// superadmin actor and detaches the account from its organization.
func (s *Service) UpdateRole(ctx context.Context, actor *authz.Actor, id, roleStr string) (*domain.Account, error) {
	role, err := domain.ParseRole(roleStr)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	existing, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if existing == nil {
		return nil, apperror.NotFound("account")
	}
	if !canManageAccount(actor, existing) {
		return nil, apperror.Forbidden("cannot manage accounts in this organization")
	}
	orgID := existing.OrgID
	if role == domain.RoleSuperAdmin {
		if actor == nil || actor.Role != domain.RoleSuperAdmin {
			return nil, apperror.Forbidden("superadmin required to grant superadmin")
		}
		orgID = ""
	} else if orgID == "" {
		return nil, apperror.BadRequest("account has no organization for this role")
	}
	acct, err := domain.NewAccount(existing.ID, existing.UserID, existing.Name, existing.PasswordHash, orgID, role)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	acct.CreatedAt = existing.CreatedAt
	acct.UpdatedAt = time.Now().UTC()
	if err := s.accounts.Update(ctx, acct); err != nil {
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, acct.OrgID, actorID(actor), "update_role", "Account", acct.UserID)
	return acct, nil
}

// Delete removes an account. Deleting a missing account returns NotFound.
func (s *Service) Delete(ctx context.Context, actor *authz.Actor, id string) error {
	existing, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return apperror.Unexpected(err)
	}
	if existing == nil {
		return apperror.NotFound("account")
	}
	if !canManageAccount(actor, existing) {
		return apperror.Forbidden("cannot manage accounts in this organization")
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, existing.OrgID, actorID(actor), "delete", "Account", existing.UserID)
	return nil
}

// Get returns a single account the actor may see.
func (s *Service) Get(ctx context.Context, actor *authz.Actor, id string) (*domain.Account, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if acct == nil {
		return nil, apperror.NotFound("account")
	}
	if !canManageAccount(actor, acct) {
		return nil, apperror.Forbidden("cannot access accounts in this organization")
	}
	return acct, nil
}

// ListByOrg returns the accounts of one organization. An empty result is a
// valid empty list.
func (s *Service) ListByOrg(ctx context.Context, actor *authz.Actor, orgID string) ([]*domain.Account, error) {
	if !authz.CanAccessOrganization(actor, orgID) {
		return nil, apperror.Forbidden("cannot access accounts in this organization")
	}
	accounts, err := s.accounts.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	return accounts, nil
}

// canManageAccount gates access to an existing account. Superadmin
// accounts have no organization and are reachable by superadmins only.
func canManageAccount(actor *authz.Actor, target *domain.Account) bool {
	if actor != nil && actor.Role == domain.RoleSuperAdmin {
		return true
	}
	if target.OrgID == "" {
		return false
	}
	return authz.CanAccessOrganization(actor, target.OrgID)
}

func actorID(actor *authz.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.AccountID
}
