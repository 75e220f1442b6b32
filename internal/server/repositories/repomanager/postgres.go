package repomanager

import (
	"context"
	"database/sql"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/server/migrations"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/profiles"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/users"
)

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	_, err := migrateUp(ctx, db, dbx.DriverPostgres)
	return err
}
