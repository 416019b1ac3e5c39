package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/migrations"
	"github.com/Masterminds/squirrel"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// retryDelays are the pauses between attempts of an idempotent read that
// failed with a [Retryable] error.
var retryDelays = []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 500 * time.Millisecond}

// DB is a database handle bound to one dialect: its placeholder format, its
// driver error classifier and its migration set.
type DB struct {
	*sql.DB
	dialect            string
	builder            squirrel.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect string, classifier ErrorClassificator, log *logger.Logger) *DB {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if dialect == DialectPostgres {
		placeholder = squirrel.Dollar
	}

	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
	}
}

// Dialect returns DialectPostgres or DialectSQLite.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the embedded schema migrations of the DB's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect, db.logger)
}

// retry runs fn until it succeeds, returns an error that is not
// [Retryable], the context is done or the attempts are exhausted.
func (db *DB) retry(ctx context.Context, fn func() error) error {
	err := fn()
	for _, delay := range retryDelays {
		if err == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "DB.retry").
			Dur("delay", delay).
			Msg("retrying after transient database error")

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}

		err = fn()
	}
	return err
}
