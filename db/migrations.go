package db

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
)

//go:embed schema
var schemaFS embed.FS

// Migration represents a database schema migration, one file per dialect
type Migration struct {
	Version string
	File    string // under schema/<driver>/
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{Version: "1.0.0", File: "1.0.0_init.sql"},
}

const createSchemaVersion = `
CREATE TABLE IF NOT EXISTS schema_version (
    version VARCHAR(32) PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`

// Migrate runs all pending migrations for the connection's dialect
func (d *DB) Migrate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := d.ExecContext(ctx, createSchemaVersion); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := d.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range AllMigrations {
		version, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}
		if !current.LessThan(version) {
			continue // Already applied
		}

		body, err := schemaFS.ReadFile("schema/" + d.Driver + "/" + migration.File)
		if err != nil {
			return fmt.Errorf("migration %s has no %s script: %w", migration.Version, d.Driver, err)
		}

		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %s: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_version (version, applied_at) VALUES ($1, $2)",
			migration.Version, time.Now().UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", migration.Version, err)
		}

		log.Info("✅ Migration applied", zap.String("version", migration.Version), zap.String("driver", d.Driver))
		current = version
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, 0.0.0 on an empty database
func (d *DB) SchemaVersion(ctx context.Context) (*semver.Version, error) {
	rows, err := d.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer rows.Close()

	current := semver.MustParse("0.0.0")
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan schema_version: %w", err)
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", raw, err)
		}
		if current.LessThan(v) {
			current = v
		}
	}
	return current, rows.Err()
}
