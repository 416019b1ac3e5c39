package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
)

// Storages groups the repositories handed to the service layer together
// with the database handle they share.
type Storages struct {
	UserRepository UserRepository

	db *DB
}

// NewStorages opens the database selected by cfg.DB.DSN, applies the
// schema migrations and wires the repositories. It performs the following
// steps:
//  1. Picks the driver by DSN form: postgres:// and postgresql:// open
//     PostgreSQL through pgx; sqlite://, file: and :memory: open SQLite.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs the repositories on the shared handle.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := Open(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository: NewUserRepository(db, log),
		db:             db,
	}, nil
}

// Open connects to the database named by cfg.DSN without migrating it.
func Open(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch dialectOf(cfg.DSN) {
	case DialectPostgres:
		db, err := NewConnectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}
		return db, nil
	case DialectSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		return db, nil
	default:
		return nil, ErrUnsupportedDSN
	}
}

func dialectOf(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DialectSQLite
	default:
		return ""
	}
}

// Ping reports whether the database is reachable.
func (s *Storages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
