package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/krishirakshak/krishirakshak/internal/common"
	"github.com/krishirakshak/krishirakshak/internal/server/migrations"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Up(context.Background(), db, "sqlite")
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 10, 19, 8, 30, 0, 123, time.UTC)

	u1, err := repo.Create(ctx, &models.User{Email: "asha@example.in", Name: "Asha", PasswordHash: "d1", Salt: "s1", Iterations: 1000, CreatedAt: created})
	require.NoError(t, err)
	u2, err := repo.Create(ctx, &models.User{Email: "ravi@example.in", Name: "Ravi", PasswordHash: "d2", Salt: "s2", Iterations: 210000, CreatedAt: created})
	require.NoError(t, err)

	assert.Positive(t, u1.ID)
	assert.Greater(t, u2.ID, u1.ID)

	got, err := repo.GetByEmail(ctx, "asha@example.in")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, got.ID)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "d1", got.PasswordHash)
	assert.Equal(t, "s1", got.Salt)
	assert.Equal(t, 1000, got.Iterations)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSQLiteRepository_DuplicateEmail(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Email: "dup@example.in", Name: "A", PasswordHash: "d", Salt: "s", CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Email: "dup@example.in", Name: "B", PasswordHash: "d", Salt: "s", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.in")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
