package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deppfellow/go-todo/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "::1",
		Port:     5433,
		User:     "todo",
		Password: "pa:ss@word",
		Name:     "todos",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://todo:pa%3Ass%40word@[::1]:5433/todos?sslmode=disable", dsn)

	parsed, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "pa:ss@word", parsed.ConnConfig.Password)
	assert.Equal(t, uint16(5433), parsed.ConnConfig.Port)
}

func TestOpenSQLite(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")

	db, err := OpenSQLite(ctx, path, &logger)
	require.NoError(t, err)
	require.NoError(t, db.Ping(ctx))

	var count int
	require.NoError(t, db.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM todos"))
	assert.Zero(t, count)
	require.NoError(t, db.Close())

	// Reopening applies the schema again without failing.
	db, err = OpenSQLite(ctx, path, &logger)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSQLiteRejectsBlankTitle(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	db, err := OpenSQLite(ctx, ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.DB.ExecContext(ctx, "INSERT INTO todos (title, created_on) VALUES ('  ', 0)")
	assert.Error(t, err)
}
