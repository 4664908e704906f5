package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"whiskaway/internal/config"
	"whiskaway/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeAuto = "auto"
	SchemaModeNone = "none"
)

type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunAutoMigrate bool
	Tables             []string
	MissingTables      []string
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeAuto
	}
	return mode
}

func schemaPolicy(cfg *config.Config) (runAuto bool, err error) {
	switch mode := normalizedSchemaMode(cfg); mode {
	case SchemaModeAuto:
		return true, nil
	case SchemaModeNone:
		return false, nil
	default:
		return false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

func runAutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema migrates the persistent models when the schema mode allows it.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}
	if !runAuto {
		middleware.Logger.InfoContext(ctx, "Skipping schema migration", slog.String("mode", SchemaModeNone))
		return nil
	}

	middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.String("env", cfg.Env))
	if err := runAutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// GetSchemaStatus reports which persistent tables exist.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunAutoMigrate: runAuto,
	}

	migrator := db.WithContext(ctx).Migrator()
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		table := stmt.Schema.Table
		status.Tables = append(status.Tables, table)
		if !migrator.HasTable(model) {
			status.MissingTables = append(status.MissingTables, table)
		}
	}
	return status, nil
}
