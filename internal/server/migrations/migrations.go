// Package migrations embeds the schema migrations for every supported
// database driver and applies them with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

var dialects = map[string]struct {
	dir     string
	dialect goose.Dialect
}{
	dbx.DriverSQLite:   {dir: "sqlite", dialect: goose.DialectSQLite3},
	dbx.DriverPostgres: {dir: "postgres", dialect: goose.DialectPostgres},
}

// Up applies all pending migrations for driver and returns how many ran.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	d, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(Migrations, d.dir)
	if err != nil {
		return 0, err
	}

	p, err := goose.NewProvider(d.dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate up: %w", err)
	}

	return len(results), nil
}
