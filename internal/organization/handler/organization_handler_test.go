package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/organization/domain"
	"orgtodo/internal/organization/service"
	permissiondomain "orgtodo/internal/permission/domain"
	"orgtodo/internal/platform/authz"
	"orgtodo/internal/server/middleware"
)

type memOrgRepo struct {
	orgs  map[string]*domain.Organization
	names map[string]string
}

func newMemOrgRepo() *memOrgRepo {
	return &memOrgRepo{orgs: map[string]*domain.Organization{}, names: map[string]string{}}
}

func (r *memOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	o, ok := r.orgs[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrgRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	var out []*domain.Organization
	for _, o := range r.orgs {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrgRepo) Create(ctx context.Context, o *domain.Organization) error {
	if _, taken := r.names[o.Name]; taken {
		return &pgconn.PgError{Code: "23505"}
	}
	cp := *o
	r.orgs[o.ID] = &cp
	r.names[o.Name] = o.ID
	return nil
}

func (r *memOrgRepo) Update(ctx context.Context, o *domain.Organization) error {
	if id, taken := r.names[o.Name]; taken && id != o.ID {
		return &pgconn.PgError{Code: "23505"}
	}
	old := r.orgs[o.ID]
	if old != nil {
		delete(r.names, old.Name)
	}
	cp := *o
	r.orgs[o.ID] = &cp
	r.names[o.Name] = o.ID
	return nil
}

func (r *memOrgRepo) Delete(ctx context.Context, id string) error {
	if o, ok := r.orgs[id]; ok {
		delete(r.names, o.Name)
		delete(r.orgs, id)
	}
	return nil
}

func superAdminActor() *authz.Actor {
	perms := make([]permissiondomain.Permission, 0, 15)
	for _, a := range []permissiondomain.Action{
		permissiondomain.ActionCreate, permissiondomain.ActionRead, permissiondomain.ActionUpdate,
		permissiondomain.ActionDelete, permissiondomain.ActionReadAll,
	} {
		for _, res := range []permissiondomain.Resource{
			permissiondomain.ResourceAccount, permissiondomain.ResourceOrganization, permissiondomain.ResourceTodo,
		} {
			perms = append(perms, permissiondomain.Make(a, res))
		}
	}
	return &authz.Actor{AccountID: "acct-super", Role: accountdomain.RoleSuperAdmin, Permissions: perms}
}

func managerActor(orgID string) *authz.Actor {
	return &authz.Actor{
		AccountID: "acct-mgr",
		OrgID:     orgID,
		Role:      accountdomain.RoleManager,
		Permissions: []permissiondomain.Permission{
			permissiondomain.Make(permissiondomain.ActionRead, permissiondomain.ResourceOrganization),
		},
	}
}

func newTestRouter(repo *memOrgRepo, actor *authz.Actor) http.Handler {
	h := NewHandler(service.NewService(repo, nil))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), actor)))
		})
	})
	h.Register(r)
	return r
}

func TestCreateOrganizationHandler(t *testing.T) {
	repo := newMemOrgRepo()
	router := newTestRouter(repo, superAdminActor())

	body := bytes.NewBufferString(`{"name":"acme"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "acme", got["name"])
	assert.NotEmpty(t, got["id"])
}

func TestCreateOrganizationHandlerDuplicate(t *testing.T) {
	repo := newMemOrgRepo()
	router := newTestRouter(repo, superAdminActor())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewBufferString(`{"name":"acme"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewBufferString(`{"name":"acme"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"organization name already taken"}`, rec.Body.String())
}

func TestCreateOrganizationHandlerForbiddenWithoutPermission(t *testing.T) {
	repo := newMemOrgRepo()
	router := newTestRouter(repo, managerActor("org-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewBufferString(`{"name":"acme"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, repo.orgs)
}

func TestCreateOrganizationHandlerInvalidBody(t *testing.T) {
	router := newTestRouter(newMemOrgRepo(), superAdminActor())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewBufferString(`{"name":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrganizationsHandlerEmpty(t *testing.T) {
	router := newTestRouter(newMemOrgRepo(), superAdminActor())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/organizations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetOrganizationHandlerNotFound(t *testing.T) {
	router := newTestRouter(newMemOrgRepo(), superAdminActor())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/organizations/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"organization not found"}`, rec.Body.String())
}

func TestDeleteOrganizationHandler(t *testing.T) {
	repo := newMemOrgRepo()
	router := newTestRouter(repo, superAdminActor())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewBufferString(`{"name":"acme"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/organizations/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/organizations/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
