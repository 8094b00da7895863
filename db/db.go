package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"pedidos-mostrador/config"
	"pedidos-mostrador/logger"
)

// Supported database/sql driver names
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DB holds the database connection and the dialect it speaks
type DB struct {
	*sql.DB
	Driver string
}

// Open opens the database connection described by cfg and verifies it with a ping
func Open(ctx context.Context, cfg *config.DBConfig) (*DB, error) {
	dsn := cfg.GetDSN()
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(cfg.SQLitePath)
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		// SQLite allows a single writer, every statement goes through one connection
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	case DriverPostgres:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	default:
		_ = conn.Close()
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.FromContext(ctx).Info("✓ Database connection established successfully",
		zap.String("driver", cfg.Driver))
	return &DB{DB: conn, Driver: cfg.Driver}, nil
}

// sqliteDSN adds the pragmas every SQLite connection must run with.
// They travel in the DSN so a connection reopened by the pool gets them too.
func sqliteDSN(path string) string {
	pragmas := "_pragma=foreign_keys(1)"
	if path != ":memory:" {
		pragmas += "&_pragma=journal_mode(WAL)"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}

// SettlementTxOptions returns the transaction options used by the shift close.
// SQLite transactions are already serializable and reject explicit isolation levels.
func (d *DB) SettlementTxOptions() *sql.TxOptions {
	if d.Driver == DriverPostgres {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
