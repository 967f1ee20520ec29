// Package sqlite is the durable-store adapter. It owns the database
// handle, guarantees the schema exists before use, and seeds the
// demonstration dataset on a first-ever start.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/registre/server/internal/domain/persons"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite file at path, applies
// connection pragmas, ensures the schema, and seeds the table when it is
// empty. Any error here is fatal to process startup.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if err := seed(ctx, db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}

	logger.Info().Str("path", path).Msg("store ready")
	return db, nil
}

// Repository implements storage.Repository on top of a SQLite handle.
type Repository struct {
	db *sql.DB

	persons *PersonRepository
}

func NewRepository(db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	return &Repository{
		db:      db,
		persons: &PersonRepository{db: db},
	}, nil
}

func (r *Repository) Persons() persons.Repository {
	return r.persons
}
