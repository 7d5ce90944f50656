// Seeds a demo account for local development: one user with an email
// credential, usable immediately against /api/auth/login.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/leadpilot/auth-service/config"
	"github.com/leadpilot/auth-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@leadpilot.dev"
	password := "Demo!Pass123"
	name := "Demo User"

	hasher := helpers.NewPasswordHasher(helpers.DefaultPasswordPolicy())
	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	id := uuid.NewString()

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (id, email, name, avatar_url, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, '', true, $4, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING id
	`, id, email, name, now).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO email_credentials (user_id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (email) DO UPDATE SET hashed_password = EXCLUDED.hashed_password, updated_at = EXCLUDED.updated_at
	`, userID, email, hash, now); err != nil {
		log.Fatalf("failed to seed credential: %v", err)
	}

	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)
}
