// Command migrate creates the upload history schema ahead of the first
// server start.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"solarweb/adapters/postgres"
	"solarweb/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("Usage: migrate <database_url>  (or set DATABASE_URL)")
	}

	dbConfig := config.DatabaseConfig{URL: databaseURL}
	log.Printf("Applying upload history schema using the %s driver", dbConfig.Driver())

	db, err := postgres.Open(context.Background(), dbConfig.Driver(), dbConfig.DSN())
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM upload_history"); err != nil {
		log.Fatalf("Failed to verify upload_history: %v", err)
	}
	log.Printf("Schema ready, upload_history holds %d records", count)
}
