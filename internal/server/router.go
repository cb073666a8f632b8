// Package server assembles the HTTP router: middleware chain, public auth
// routes, and permission-gated resource routes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	accounthandler "orgtodo/internal/account/handler"
	authhandler "orgtodo/internal/auth/handler"
	"orgtodo/internal/config"
	healthhandler "orgtodo/internal/health/handler"
	orghandler "orgtodo/internal/organization/handler"
	"orgtodo/internal/security"
	"orgtodo/internal/server/middleware"
	todohandler "orgtodo/internal/todo/handler"
)

// Handlers bundles the feature handlers mounted by the router.
type Handlers struct {
	Auth         *authhandler.Handler
	Organization *orghandler.Handler
	Account      *accounthandler.Handler
	Todo         *todohandler.Handler
	Health       *healthhandler.Handler
}

// New builds the router. Auth and health routes are public; everything else
// sits behind token authentication and per-route permission gates.
func New(cfg *config.Config, log zerolog.Logger, tokens *security.TokenProvider, perms middleware.PermissionSource, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Timeout(cfg.Timeout()))

	r.Handle("/metrics", promhttp.Handler())
	h.Health.Register(r)
	h.Auth.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, perms))
		h.Organization.Register(r)
		h.Account.Register(r)
		h.Todo.Register(r)
	})

	return r
}
