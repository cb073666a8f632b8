package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgtodo/internal/account/domain"
	"orgtodo/internal/account/service"
	"orgtodo/internal/apperror"
	permissiondomain "orgtodo/internal/permission/domain"
	"orgtodo/internal/server/middleware"
	"orgtodo/internal/server/respond"
)

// Handler exposes the account use cases over HTTP.
type Handler struct {
	accounts *service.Service
}

// NewHandler returns an account Handler.
func NewHandler(accounts *service.Service) *Handler {
	return &Handler{accounts: accounts}
}

// Register mounts the account routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.With(middleware.RequirePermission(permissiondomain.ActionCreate, permissiondomain.ResourceAccount)).
			Post("/", h.create)
		r.With(middleware.RequirePermission(permissiondomain.ActionRead, permissiondomain.ResourceAccount)).
			Get("/{id}", h.get)
		r.With(middleware.RequirePermission(permissiondomain.ActionUpdate, permissiondomain.ResourceAccount)).
			Put("/{id}", h.update)
		r.With(middleware.RequirePermission(permissiondomain.ActionUpdate, permissiondomain.ResourceAccount)).
			Put("/{id}/role", h.updateRole)
		r.With(middleware.RequirePermission(permissiondomain.ActionDelete, permissiondomain.ResourceAccount)).
			Delete("/{id}", h.delete)
	})
	r.With(middleware.RequirePermission(permissiondomain.ActionReadAll, permissiondomain.ResourceAccount)).
		Get("/organizations/{orgID}/accounts", h.listByOrg)
}

type createAccountRequest struct {
	UserID   string `json:"userId" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8"`
	OrgID    string `json:"orgId"`
	Role     string `json:"role" validate:"required"`
}

type updateAccountRequest struct {
	UserID   string `json:"userId" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	OrgID     string    `json:"orgId,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req createAccountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	acct, err := h.accounts.Create(r.Context(), actor, service.CreateParams{
		UserID:   req.UserID,
		Name:     req.Name,
		Password: req.Password,
		OrgID:    req.OrgID,
		Role:     req.Role,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toAccountResponse(acct))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	acct, err := h.accounts.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req updateAccountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	acct, err := h.accounts.Update(r.Context(), actor, chi.URLParam(r, "id"), service.UpdateParams{
		UserID:   req.UserID,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req updateRoleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	acct, err := h.accounts.UpdateRole(r.Context(), actor, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	if err := h.accounts.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listByOrg(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	accounts, err := h.accounts.ListByOrg(r.Context(), actor, chi.URLParam(r, "orgID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, toAccountResponse(acct))
	}
	respond.JSON(w, http.StatusOK, out)
}

func toAccountResponse(acct *domain.Account) accountResponse {
	return accountResponse{
		ID:        acct.ID,
		UserID:    acct.UserID,
		Name:      acct.Name,
		OrgID:     acct.OrgID,
		Role:      string(acct.Role),
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
}
