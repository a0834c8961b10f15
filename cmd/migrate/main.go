package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shoplane/support-chat/internal/config"
	"github.com/shoplane/support-chat/internal/repository/postgres"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Migrating database at %s:%d...\n", cfg.Database.Host, cfg.Database.Port)

	sourceURL := "file://" + cfg.Database.MigrationsDir
	if err := postgres.RunMigrations(cfg.Database.DSN(), sourceURL); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
}
