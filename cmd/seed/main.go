// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev superadmin (user id "root") already exists.
package main

import (
	"context"
	"log"
	"os"

	accountdomain "orgtodo/internal/account/domain"
	accountrepo "orgtodo/internal/account/repository"
	"orgtodo/internal/config"
	"orgtodo/internal/db"
	orgdomain "orgtodo/internal/organization/domain"
	orgrepo "orgtodo/internal/organization/repository"
	"orgtodo/internal/security"
	tododomain "orgtodo/internal/todo/domain"
	todorepo "orgtodo/internal/todo/repository"
)

const (
	devPassword    = "password123"
	devRootID      = "dev-acct-root"
	devManagerID   = "dev-acct-manager"
	devOperatorID  = "dev-acct-operator"
	devOrgID       = "dev-org-001"
	devTodoID      = "dev-todo-001"
	devOrgName     = "Dev Org"
	devRootUser    = "root"
	devManagerUser = "manager"
	devOperator    = "operator1"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL, db.Options{})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	accounts := accountrepo.NewPostgresRepository(conn)
	orgs := orgrepo.NewPostgresRepository(conn)
	todos := todorepo.NewPostgresRepository(conn)

	existing, err := accounts.GetByUserID(ctx, devRootUser)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (root exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	org, err := orgdomain.NewOrganization(devOrgID, devOrgName)
	if err != nil {
		log.Fatalf("organization: %v", err)
	}
	if err := orgs.Create(ctx, org); err != nil {
		log.Fatalf("create organization: %v", err)
	}

	seedAccounts := []struct {
		id     string
		userID string
		name   string
		orgID  string
		role   accountdomain.Role
	}{
		{devRootID, devRootUser, "Dev Root", "", accountdomain.RoleSuperAdmin},
		{devManagerID, devManagerUser, "Dev Manager", devOrgID, accountdomain.RoleManager},
		{devOperatorID, devOperator, "Dev Operator", devOrgID, accountdomain.RoleOperator},
	}
	for _, sa := range seedAccounts {
		acct, err := accountdomain.NewAccount(sa.id, sa.userID, sa.name, passwordHash, sa.orgID, sa.role)
		if err != nil {
			log.Fatalf("account %s: %v", sa.userID, err)
		}
		if err := accounts.Create(ctx, acct); err != nil {
			log.Fatalf("create account %s: %v", sa.userID, err)
		}
	}

	todo, err := tododomain.NewTodoItem(devTodoID, "Try the API", "Log in as manager/password123 and list todos", "", devOrgID)
	if err != nil {
		log.Fatalf("todo: %v", err)
	}
	if err := todos.Create(ctx, todo); err != nil {
		log.Fatalf("create todo: %v", err)
	}

	log.Println("Seed applied: org 'Dev Org', accounts root/manager/operator1 (password123), one todo.")
}
