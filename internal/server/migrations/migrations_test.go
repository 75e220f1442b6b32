package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	n, err := Up(context.Background(), db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, table := range []string{"users", "farm_profiles"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	n, err = Up(context.Background(), db, "sqlite")
	require.NoError(t, err)
	assert.Zero(t, n, "second run applies nothing")
}

func TestUp_SQLite_ExistingUsersKeepDefaultIterations(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Up(context.Background(), db, "sqlite")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (email, name, password_hash, salt, created_at)
		VALUES ('asha@example.in', 'Asha', 'd', 's', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	var iterations int
	err = db.QueryRow(`SELECT iterations FROM users WHERE email = 'asha@example.in'`).Scan(&iterations)
	require.NoError(t, err)
	assert.Equal(t, 210000, iterations)
}

func TestUp_UnknownDriver(t *testing.T) {
	_, err := Up(context.Background(), nil, "mysql")
	require.Error(t, err)
}

func TestEmbeddedMigrationsMatchAcrossDialects(t *testing.T) {
	sqlite, err := Migrations.ReadDir("sqlite")
	require.NoError(t, err)
	postgres, err := Migrations.ReadDir("postgres")
	require.NoError(t, err)

	require.Equal(t, len(sqlite), len(postgres))
	for i := range sqlite {
		assert.Equal(t, sqlite[i].Name(), postgres[i].Name())
	}
}
