package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/quadro-dev/quadro/db"
	"github.com/quadro-dev/quadro/internal/auth"
	"github.com/quadro-dev/quadro/internal/board"
	"github.com/quadro-dev/quadro/internal/broadcast"
	"github.com/quadro-dev/quadro/internal/directory"
	"github.com/quadro-dev/quadro/internal/handlers"
	"github.com/quadro-dev/quadro/internal/router"
	"github.com/quadro-dev/quadro/internal/scheduler"
	"github.com/quadro-dev/quadro/internal/services"
	"github.com/quadro-dev/quadro/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.Seed(db.DB); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	hub := broadcast.NewHub()

	var sessionOpts []session.Option

	if masterHash := os.Getenv("LEGACY_MASTER_PASSWORD_HASH"); masterHash != "" {
		log.Println("Legacy master passphrase fallback is enabled")
		sessionOpts = append(sessionOpts, session.WithLegacyMasterHash(masterHash))
	}

	sessions := session.NewStore(db.DB, hub, sessionOpts...)

	if err := sessions.Restore(); err != nil {
		log.Fatalf("Failed to restore sessions: %v", err)
	}

	notifier := services.NewNotifier(db.DB, hub)
	boardSvc := board.NewService(db.DB, notifier, hub)
	dir := directory.NewService(db.DB, hub)

	interval := scheduler.DefaultInterval

	if raw := os.Getenv("RECONCILE_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid RECONCILE_INTERVAL: %v", err)
		}
		interval = parsed
	}

	reconciler := scheduler.NewReconciler(sessions, interval)
	reconciler.SubscribeTo(hub)

	if err := reconciler.Start(); err != nil {
		log.Fatalf("Failed to start session reconciler: %v", err)
	}
	defer reconciler.Stop()

	h := handlers.New(boardSvc, dir, sessions, notifier, hub)
	r := router.NewRouter(h, sessions)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
