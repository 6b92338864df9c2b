package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/taskhub/taskhub-api/config"
	"github.com/taskhub/taskhub-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@taskhub.dev"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (lower(email)) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, name, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	tomorrow := time.Now().AddDate(0, 0, 1)
	tasks := []struct {
		title, description, status, priority string
		due                                  *time.Time
	}{
		{"Set up local environment", "Install dependencies and copy .env.example", "done", "high", nil},
		{"Review onboarding docs", "", "in-progress", "medium", &tomorrow},
		{"Plan first sprint", "Draft backlog with the team", "todo", "low", nil},
	}
	for _, t := range tasks {
		if _, err := db.Exec(`
			INSERT INTO tasks (user_id, title, description, status, priority, due_date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, t.title, t.description, t.status, t.priority, t.due); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}
	fmt.Printf("seeded %d tasks for %s\n", len(tasks), email)
}
