package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgtodo/internal/auth/service"
	"orgtodo/internal/server/respond"
)

// Handler exposes login, token refresh, and logout over HTTP.
type Handler struct {
	auth *service.AuthService
}

// NewHandler returns an auth Handler.
func NewHandler(auth *service.AuthService) *Handler {
	return &Handler{auth: auth}
}

// Register mounts the public auth routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
	r.Post("/auth/logout", h.logout)
}

type loginRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AccountID    string    `json:"accountId"`
	OrgID        string    `json:"orgId,omitempty"`
	Role         string    `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toTokenResponse(res))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	res, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toTokenResponse(res))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.auth.Logout(r.Context(), req.RefreshToken, ""); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusNoContent, nil)
}

func toTokenResponse(res *service.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
		AccountID:    res.AccountID,
		OrgID:        res.OrgID,
		Role:         res.Role,
	}
}
