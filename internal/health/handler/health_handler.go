package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgtodo/internal/server/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves liveness and readiness probes for load balancers and CI.
type Handler struct {
	db Pinger
}

// NewHandler returns a health Handler. db may be nil; readiness then only
// reports the process as up.
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Register mounts the health routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.live)
	r.Get("/readyz", h.ready)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "database unreachable"})
			return
		}
	}
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
