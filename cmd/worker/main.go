// Worker periodically deletes expired login sessions. Expired sessions are
// already unusable; this keeps the sessions table from growing unbounded.
// Set SESSION_CLEANUP_INTERVAL to tune the sweep cadence (default 1h).
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orgtodo/internal/config"
	"orgtodo/internal/db"
	sessionrepo "orgtodo/internal/session/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	interval := time.Hour
	if raw := os.Getenv("SESSION_CLEANUP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		}
	}

	conn, err := db.Open(cfg.DatabaseURL, db.Options{MaxOpenConns: 2})
	if err != nil {
		log.Fatalf("worker: db: %v", err)
	}
	defer conn.Close()

	sessions := sessionrepo.NewPostgresRepository(conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: sweeping expired sessions every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, 30*time.Second)
		n, err := sessions.DeleteExpired(sweepCtx, time.Now().UTC())
		sweepCancel()
		if err != nil {
			log.Printf("worker: cleanup failed: %v", err)
		} else if n > 0 {
			log.Printf("worker: removed %d expired sessions", n)
		}

		select {
		case <-ctx.Done():
			log.Println("worker: stopped")
			return
		case <-ticker.C:
		}
	}
}
