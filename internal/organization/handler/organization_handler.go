package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgtodo/internal/apperror"
	"orgtodo/internal/organization/domain"
	"orgtodo/internal/organization/service"
	permissiondomain "orgtodo/internal/permission/domain"
	"orgtodo/internal/server/middleware"
	"orgtodo/internal/server/respond"
)

// Handler exposes the organization use cases over HTTP.
type Handler struct {
	orgs *service.Service
}

// NewHandler returns an organization Handler.
func NewHandler(orgs *service.Service) *Handler {
	return &Handler{orgs: orgs}
}

// Register mounts the organization routes on r. Each route carries the
// matching permission gate; ownership is re-checked in the service.
func (h *Handler) Register(r chi.Router) {
	r.Route("/organizations", func(r chi.Router) {
		r.With(middleware.RequirePermission(permissiondomain.ActionReadAll, permissiondomain.ResourceOrganization)).
			Get("/", h.list)
		r.With(middleware.RequirePermission(permissiondomain.ActionCreate, permissiondomain.ResourceOrganization)).
			Post("/", h.create)
		r.With(middleware.RequirePermission(permissiondomain.ActionRead, permissiondomain.ResourceOrganization)).
			Get("/{id}", h.get)
		r.With(middleware.RequirePermission(permissiondomain.ActionUpdate, permissiondomain.ResourceOrganization)).
			Put("/{id}", h.update)
		r.With(middleware.RequirePermission(permissiondomain.ActionDelete, permissiondomain.ResourceOrganization)).
			Delete("/{id}", h.delete)
	})
}

type organizationRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req organizationRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	org, err := h.orgs.Create(r.Context(), actor, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toOrganizationResponse(org))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req organizationRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	org, err := h.orgs.Update(r.Context(), actor, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toOrganizationResponse(org))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	if err := h.orgs.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	orgs, err := h.orgs.List(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]organizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrganizationResponse(org))
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	org, err := h.orgs.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toOrganizationResponse(org))
}

func toOrganizationResponse(org *domain.Organization) organizationResponse {
	return organizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
