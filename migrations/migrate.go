// Package migrations holds the embedded schema of the users store, one
// directory per SQL dialect, applied with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// gooseDialects maps store dialects to goose dialect names and migration
// directories.
var gooseDialects = map[string]struct{ goose, dir string }{
	"postgres": {goose: "pgx", dir: "postgres"},
	"sqlite":   {goose: "sqlite3", dir: "sqlite"},
}

// ErrUnknownDialect is returned for a dialect without migrations.
var ErrUnknownDialect = errors.New("unknown migration dialect")

// Migrate applies every pending migration of dialect ("postgres" or
// "sqlite") to db. Goose output goes to log.
func Migrate(db *sql.DB, dialect string, log *logger.Logger) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	d, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("migration error: %w: %q", ErrUnknownDialect, dialect)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log: log})

	if err := goose.SetDialect(d.goose); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, d.dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// gooseLogger routes goose output into the application logger.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	if l.log == nil {
		return
	}
	l.log.Info().Str("func", "migrations.Migrate").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level. It does not exit: every goose failure is also
// returned from Up.
func (l gooseLogger) Fatalf(format string, v ...any) {
	if l.log == nil {
		return
	}
	l.log.Error().Str("func", "migrations.Migrate").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
