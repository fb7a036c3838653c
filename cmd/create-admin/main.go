// Command create-admin provisions or promotes an ADMIN account.
//
// Self-registration through the API always yields USER-role accounts, so the
// first case-management admin has to be seeded out of band:
//
//	create-admin -email desk@city.gov -name "Desk Admin" -password 's3cret...'
//
// If the address is already registered the existing account is promoted to
// ADMIN instead (the stored password is left unchanged).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicdesk/go-complaint-backend/internal/domain"
	"github.com/civicdesk/go-complaint-backend/internal/repo"
	"github.com/civicdesk/go-complaint-backend/internal/services"
	"github.com/civicdesk/go-complaint-backend/internal/sysutil"
)

func main() {
	_ = godotenv.Load()

	defaultDB := sysutil.FirstNonEmpty(os.Getenv("DB_PATH"), "complaints.db")

	// Flags win over the ADMIN_* seed env vars, which suit container installs
	// where arguments are awkward to thread through.
	var (
		dbPath   = flag.String("db", defaultDB, "path to the SQLite database")
		email    = flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email address (required)")
		name     = flag.String("name", os.Getenv("ADMIN_NAME"), "display name (required for new accounts)")
		password = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password (required for new accounts)")
	)
	flag.Parse()

	if *email == "" {
		fatalf("-email is required")
	}

	db, err := repo.OpenSQLite(*dbPath)
	if err != nil {
		fatalf("open database %s: %v", *dbPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Promote first: re-running against an existing account must not fail.
	if _, err := repo.GetUserByEmail(ctx, db, *email); err == nil {
		if err := repo.UpdateUserRole(ctx, db, *email, domain.RoleAdmin); err != nil {
			fatalf("promote %s: %v", *email, err)
		}
		fmt.Printf("promoted existing account %s to ADMIN\n", *email)
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		fatalf("lookup %s: %v", *email, err)
	}

	if *name == "" || *password == "" {
		fatalf("-name and -password are required to create a new account")
	}
	if len(*password) < services.MinPasswordLen {
		fatalf("password must be at least %d characters", services.MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fatalf("hash password: %v", err)
	}

	u, err := repo.CreateUser(ctx, db, *name, *email, string(hash), domain.RoleAdmin)
	if err != nil {
		fatalf("create admin: %v", err)
	}
	fmt.Printf("created ADMIN account %s (%s)\n", u.Email, u.ID)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
