// seed inserts development sample data for local testing.
// Idempotent: it exits cleanly if the dev user already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"storegate/internal/config"
	"storegate/internal/db"
	roledomain "storegate/internal/role/domain"
	rolerepo "storegate/internal/role/repository"
	"storegate/internal/security"
	userdomain "storegate/internal/user/domain"
	userrepo "storegate/internal/user/repository"
)

const (
	devEmail    = "dev@example.com"
	devPassword = "password123"
	devStoreID  = "dev-store-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := userrepo.NewPostgresRepository(database)
	roles := rolerepo.NewPostgresRepository(database)

	existing, err := users.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Printf("seed: %s already exists, nothing to do", devEmail)
		return
	}

	now := time.Now().UTC()
	role, err := roles.Create(ctx, roledomain.OwnerRole(uuid.New().String(), devStoreID, now))
	if err != nil {
		log.Fatalf("seed: create role: %v", err)
	}

	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}
	user, err := users.Create(ctx, &userdomain.User{
		ID:           uuid.New().String(),
		Email:        devEmail,
		PasswordHash: hash,
		StoreID:      devStoreID,
		RoleID:       role.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Fatalf("seed: create user: %v", err)
	}
	log.Printf("seed: created %s (store %s, password %q)", user.Email, user.StoreID, devPassword)
}
