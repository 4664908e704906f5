// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"whiskaway/internal/config"
	"whiskaway/internal/database"
	"whiskaway/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status|mongo-indexes>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if cmd == "mongo-indexes" {
		client, mdb, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()
		if err := repository.EnsureNotificationIndexes(ctx, mdb); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		log.Println("mongo notification indexes ensured")
		return nil
	}

	// Connect without migrating; the subcommand decides.
	mode := cfg.DBSchemaMode
	cfg.DBSchemaMode = database.SchemaModeNone
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	cfg.DBSchemaMode = mode

	switch cmd {
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s run_auto=%t tables=%d missing=%d",
			status.Mode, status.Environment, status.WillRunAutoMigrate, len(status.Tables), len(status.MissingTables))
		for _, table := range status.MissingTables {
			log.Printf("missing: %s", table)
		}
	default:
		return usage()
	}
	return nil
}
