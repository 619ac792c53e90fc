package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status|version]

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"resume-analyzer/internal/shared/storage/db"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("migrate: ignoring .env: %v", err)
		}
	}
	command := "up"
	if len(os.Args) > 1 {
		command = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}
	ctx := context.Background()

	opts := db.OptionsFromLookup(db.DefaultMigrateOptions(), os.LookupEnv)
	sqlDB, err := db.Connect(ctx, os.Getenv("DATABASE_URL"), opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		log.Printf("migrate %s: %v", command, err)
		sqlDB.Close()
		os.Exit(1)
	}
}
