package sqlite

import (
	"context"
	"database/sql"
)

// The schema is a single idempotent statement; there is no migrations
// directory. AUTOINCREMENT guarantees ids are strictly increasing and
// never reused after deletion.
const createPersonsTable = `CREATE TABLE IF NOT EXISTS persons (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT ''
);`

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createPersonsTable)
	return err
}
