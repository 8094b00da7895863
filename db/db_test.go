package db_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedidos-mostrador/config"
	"pedidos-mostrador/db"
	"pedidos-mostrador/db/dbtest"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, conn.Migrate(ctx))

	v, err := conn.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSchema_RejectsNonPositiveQuantity(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	var orderID int64
	require.NoError(t, conn.QueryRowContext(ctx,
		"INSERT INTO orders (created_at, business_date, total) VALUES (CURRENT_TIMESTAMP, '2026-10-14', '0') RETURNING id",
	).Scan(&orderID))

	_, err := conn.ExecContext(ctx,
		"INSERT INTO order_lines (order_id, product_id, quantity, subtotal) VALUES ($1, 1, 0, '0')", orderID)
	assert.Error(t, err)
}

func TestOpen_SQLitePragmasSurviveReconnect(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, &config.DBConfig{
		Driver:     db.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "pos.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	assertPragmas := func() {
		var fk int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)

		var mode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	}
	assertPragmas()

	// drop the pooled connection so the next query dials a fresh one
	raw, err := conn.Conn(ctx)
	require.NoError(t, err)
	err = raw.Raw(func(any) error { return driver.ErrBadConn })
	require.ErrorIs(t, err, driver.ErrBadConn)
	_ = raw.Close()

	assertPragmas()
}

func TestSchema_EnforcesForeignKeys(t *testing.T) {
	conn := dbtest.Open(t)

	_, err := conn.ExecContext(context.Background(),
		"INSERT INTO order_lines (order_id, product_id, quantity, subtotal) VALUES (9999, 1, 1, '1')")
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := db.Open(context.Background(), &config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestSettlementTxOptions(t *testing.T) {
	assert.Nil(t, (&db.DB{Driver: db.DriverSQLite}).SettlementTxOptions())
	opts := (&db.DB{Driver: db.DriverPostgres}).SettlementTxOptions()
	require.NotNil(t, opts)
	assert.Equal(t, sql.LevelSerializable, opts.Isolation)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, db.IsSerializationFailure(fmt.Errorf("confirm: %w", &pgconn.PgError{Code: "40001"})))
	assert.True(t, db.IsSerializationFailure(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, db.IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, db.IsSerializationFailure(errors.New("boom")))
	assert.False(t, db.IsSerializationFailure(nil))
}
