// Package storage opens the ledger database once per process and brings
// its schema up to date. The returned *sql.DB is shared by every repository
// and must be closed by the caller at shutdown.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/storage/migrations"
)

// driverName maps a dialect to its database/sql driver.
func driverName(d dbx.Dialect) (string, error) {
	switch d {
	case dbx.DialectSQLite:
		return "sqlite", nil
	case dbx.DialectPostgres:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported dialect %q", d)
}

// Open connects to dsn, verifies the connection and runs migrations.
func Open(ctx context.Context, d dbx.Dialect, dsn string) (*sql.DB, error) {
	driver, err := driverName(d)
	if err != nil {
		return nil, err
	}

	if d == dbx.DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}

	if d == dbx.DialectSQLite {
		// one connection: ":memory:" databases are per-connection and the
		// CLI never runs statements concurrently
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// Migrate applies every pending migration for dialect d.
func Migrate(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	gooseDialect := "sqlite3"
	if d == dbx.DialectPostgres {
		gooseDialect = "postgres"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, string(d))
}

// sqliteDSN turns on foreign key enforcement for every connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
