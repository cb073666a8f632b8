package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accounthandler "orgtodo/internal/account/handler"
	accountrepo "orgtodo/internal/account/repository"
	accountservice "orgtodo/internal/account/service"
	"orgtodo/internal/audit"
	auditrepo "orgtodo/internal/audit/repository"
	authhandler "orgtodo/internal/auth/handler"
	authservice "orgtodo/internal/auth/service"
	"orgtodo/internal/config"
	"orgtodo/internal/db"
	healthhandler "orgtodo/internal/health/handler"
	"orgtodo/internal/logger"
	orghandler "orgtodo/internal/organization/handler"
	orgrepo "orgtodo/internal/organization/repository"
	orgservice "orgtodo/internal/organization/service"
	permissionrepo "orgtodo/internal/permission/repository"
	permissionservice "orgtodo/internal/permission/service"
	"orgtodo/internal/security"
	"orgtodo/internal/server"
	"orgtodo/internal/server/middleware"
	sessionrepo "orgtodo/internal/session/repository"
	todohandler "orgtodo/internal/todo/handler"
	todorepo "orgtodo/internal/todo/repository"
	todoservice "orgtodo/internal/todo/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	conn, err := db.Open(cfg.DatabaseURL, db.Options{})
	if err != nil {
		logg.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		logg.Fatal().Err(err).Msg("parse JWT private key")
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		logg.Fatal().Err(err).Msg("parse JWT public key")
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	accounts := accountrepo.NewPostgresRepository(conn)
	orgs := orgrepo.NewPostgresRepository(conn)
	todos := todorepo.NewPostgresRepository(conn)
	permissions := permissionrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	auditLogs := auditrepo.NewPostgresRepository(conn)

	auditLogger := audit.NewLogger(auditLogs, middleware.GetClientIP)

	permissionSvc := permissionservice.NewService(permissions)
	orgSvc := orgservice.NewService(orgs, auditLogger)
	accountSvc := accountservice.NewService(accounts, orgs, hasher, auditLogger)
	todoSvc := todoservice.NewService(todos, orgs, auditLogger)
	authSvc := authservice.NewAuthService(accounts, sessions, hasher, tokens, cfg.RefreshTTL(), auditLogger)

	router := server.New(cfg, logg, tokens, permissionSvc, server.Handlers{
		Auth:         authhandler.NewHandler(authSvc),
		Organization: orghandler.NewHandler(orgSvc),
		Account:      accounthandler.NewHandler(accountSvc),
		Todo:         todohandler.NewHandler(todoSvc),
		Health:       healthhandler.NewHandler(conn),
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal().Err(err).Msg("serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info().Msg("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error().Err(err).Msg("shutdown")
	}
	logg.Info().Msg("http server stopped")
}
