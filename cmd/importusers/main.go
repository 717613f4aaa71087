package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/scribely/backend/internal/importer"
	"github.com/scribely/backend/internal/models"
	"github.com/scribely/backend/internal/repositories"
	"github.com/scribely/backend/pkg/config"
)

// importusers fetches users from a JSON URL and imports them up to a limit.
//
// Usage: importusers <url> <limit>
func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <url> <limit>", os.Args[0])
	}
	url := os.Args[1]
	limit, err := strconv.Atoi(os.Args[2])
	if err != nil || limit < 0 {
		log.Fatalf("invalid limit %q", os.Args[2])
	}

	cfg := config.Load()
	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate users: %v", err)
	}

	userRepo := repositories.NewPostgresUserRepository(db)

	log.Printf("Fetching users from: %s", url)
	imported, err := importer.NewImporter(userRepo).Run(context.Background(), url, limit)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Successfully imported %d user(s).", imported)
}
