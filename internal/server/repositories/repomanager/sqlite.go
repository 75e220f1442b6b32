package repomanager

import (
	"context"
	"database/sql"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/profiles"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	_, err := migrateUp(ctx, db, dbx.DriverSQLite)
	return err
}
