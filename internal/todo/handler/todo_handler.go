package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgtodo/internal/apperror"
	permissiondomain "orgtodo/internal/permission/domain"
	"orgtodo/internal/server/middleware"
	"orgtodo/internal/server/respond"
	"orgtodo/internal/todo/domain"
	"orgtodo/internal/todo/service"
)

// Handler exposes the todo use cases over HTTP.
type Handler struct {
	todos *service.Service
}

// NewHandler returns a todo Handler.
func NewHandler(todos *service.Service) *Handler {
	return &Handler{todos: todos}
}

// Register mounts the todo routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/todos", func(r chi.Router) {
		r.With(middleware.RequirePermission(permissiondomain.ActionCreate, permissiondomain.ResourceTodo)).
			Post("/", h.create)
		r.With(middleware.RequirePermission(permissiondomain.ActionRead, permissiondomain.ResourceTodo)).
			Get("/{id}", h.get)
		r.With(middleware.RequirePermission(permissiondomain.ActionUpdate, permissiondomain.ResourceTodo)).
			Put("/{id}", h.update)
		r.With(middleware.RequirePermission(permissiondomain.ActionDelete, permissiondomain.ResourceTodo)).
			Delete("/{id}", h.delete)
	})
	r.With(middleware.RequirePermission(permissiondomain.ActionReadAll, permissiondomain.ResourceTodo)).
		Get("/organizations/{orgID}/todos", h.listByOrg)
}

type createTodoRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Status      string `json:"status"`
	OrgID       string `json:"orgId" validate:"required"`
}

type updateTodoRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Status      string `json:"status"`
}

type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OrgID       string    `json:"orgId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req createTodoRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	item, err := h.todos.Create(r.Context(), actor, service.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		OrgID:       req.OrgID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toTodoResponse(item))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	item, err := h.todos.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toTodoResponse(item))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	var req updateTodoRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	item, err := h.todos.Update(r.Context(), actor, chi.URLParam(r, "id"), service.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toTodoResponse(item))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
		return
	}
	if err := h.todos.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
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
	items, err := h.todos.ListByOrg(r.Context(), actor, chi.URLParam(r, "orgID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]todoResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toTodoResponse(item))
	}
	respond.JSON(w, http.StatusOK, out)
}

func toTodoResponse(item *domain.TodoItem) todoResponse {
	return todoResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		OrgID:       item.OrgID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
