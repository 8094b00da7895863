// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pedidos-mostrador/config"
	"pedidos-mostrador/db"
)

// Open returns an in-memory SQLite database with every migration applied.
// The database is closed when the test ends.
func Open(t testing.TB) *db.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, &config.DBConfig{Driver: db.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Migrate(ctx))
	return conn
}
