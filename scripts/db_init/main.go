package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/openhire/jobboard/db"
	"github.com/openhire/jobboard/internal/config"
	"github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/internal/provision"
	"github.com/openhire/jobboard/internal/repository/sqlite"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	// first-run provisioning: create the configured admin account
	if err := provision.EnsureAdmin(ctx, sqlite.New(database), cfg.Admin, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Admin provisioning error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
