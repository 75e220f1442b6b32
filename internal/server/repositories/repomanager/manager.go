// Package repomanager vends driver-specific repository implementations and
// runs the matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/profiles"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}

// New returns the RepositoryManager for a database/sql driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	case dbx.DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("no repositories for driver %q", driver)
	}
}
