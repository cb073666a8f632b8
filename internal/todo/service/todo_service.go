package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orgtodo/internal/apperror"
	"orgtodo/internal/audit"
	orgdomain "orgtodo/internal/organization/domain"
	"orgtodo/internal/platform/authz"
	"orgtodo/internal/todo/domain"
)

// TodoRepo is the minimal todo repository needed by the service.
type TodoRepo interface {
	GetByID(ctx context.Context, id string) (*domain.TodoItem, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.TodoItem, error)
	Create(ctx context.Context, item *domain.TodoItem) error
	Update(ctx context.Context, item *domain.TodoItem) error
	Delete(ctx context.Context, id string) error
}

// OrgGetter resolves organizations for existence checks.
type OrgGetter interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Organization, error)
}

// Service implements the todo use cases. Access checks run against the
// stored item's organization, not the caller-supplied one.
type Service struct {
	todos TodoRepo
	orgs  OrgGetter
	audit *audit.Logger
}

// NewService returns a todo Service. auditLogger may be nil.
func NewService(todos TodoRepo, orgs OrgGetter, auditLogger *audit.Logger) *Service {
	return &Service{todos: todos, orgs: orgs, audit: auditLogger}
}

// CreateParams carries the input for Create. An empty Status defaults to
// not_started.
type CreateParams struct {
	Title       string
	Description string
	Status      string
	OrgID       string
}

// Create adds a todo item to an organization the actor can access.
func (s *Service) Create(ctx context.Context, actor *authz.Actor, p CreateParams) (*domain.TodoItem, error) {
	if !authz.CanAccessOrganization(actor, p.OrgID) {
		return nil, apperror.Forbidden("cannot manage todos in this organization")
	}
	status, err := domain.ParseStatus(p.Status)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	org, err := s.orgs.GetByID(ctx, p.OrgID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if org == nil {
		return nil, apperror.NotFound("organization")
	}
	item, err := domain.NewTodoItem(uuid.New().String(), p.Title, p.Description, status, p.OrgID)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if err := s.todos.Create(ctx, item); err != nil {
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, item.OrgID, actorID(actor), "create", "Todo", item.Title)
	return item, nil
}

// UpdateParams carries the input for Update (whole-object replacement).
type UpdateParams struct {
	Title       string
	Description string
	Status      string
}

// Update replaces a todo item's fields. The ownership check runs against
// the stored item's organization.
func (s *Service) Update(ctx context.Context, actor *authz.Actor, id string, p UpdateParams) (*domain.TodoItem, error) {
	existing, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if existing == nil {
		return nil, apperror.NotFound("todo item")
	}
	if !authz.CanAccessOrganization(actor, existing.OrgID) {
		return nil, apperror.Forbidden("cannot manage todos in this organization")
	}
	status, err := domain.ParseStatus(p.Status)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	item, err := domain.NewTodoItem(existing.ID, p.Title, p.Description, status, existing.OrgID)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	if err := s.todos.Update(ctx, item); err != nil {
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, item.OrgID, actorID(actor), "update", "Todo", item.Title)
	return item, nil
}

// Delete removes a todo item. Deleting a missing item returns NotFound.
func (s *Service) Delete(ctx context.Context, actor *authz.Actor, id string) error {
	existing, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return apperror.Unexpected(err)
	}
	if existing == nil {
		return apperror.NotFound("todo item")
	}
	if !authz.CanAccessOrganization(actor, existing.OrgID) {
		return apperror.Forbidden("cannot manage todos in this organization")
	}
	if err := s.todos.Delete(ctx, id); err != nil {
		return apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, existing.OrgID, actorID(actor), "delete", "Todo", existing.Title)
	return nil
}

// Get returns a single todo item the actor may see.
func (s *Service) Get(ctx context.Context, actor *authz.Actor, id string) (*domain.TodoItem, error) {
	item, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if item == nil {
		return nil, apperror.NotFound("todo item")
	}
	if !authz.CanAccessOrganization(actor, item.OrgID) {
		return nil, apperror.Forbidden("cannot access todos in this organization")
	}
	return item, nil
}

// ListByOrg returns the todo items of one organization, newest first. An
// empty result is a valid empty list.
func (s *Service) ListByOrg(ctx context.Context, actor *authz.Actor, orgID string) ([]*domain.TodoItem, error) {
	if !authz.CanAccessOrganization(actor, orgID) {
		return nil, apperror.Forbidden("cannot access todos in this organization")
	}
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if org == nil {
		return nil, apperror.NotFound("organization")
	}
	items, err := s.todos.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if items == nil {
		items = []*domain.TodoItem{}
	}
	return items, nil
}

func actorID(actor *authz.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.AccountID
}
