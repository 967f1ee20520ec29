package sqlite

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

// seedPersons is the demonstration dataset inserted once, in order, when
// the table is empty at startup.
var seedPersons = []struct {
	name    string
	address string
}{
	{"Bob", "123 Rue Principale"},
	{"Alice", "456 Avenue des Champs"},
	{"Charlie", "789 Boulevard Central"},
}

// seed inserts the demonstration records iff the table holds zero rows.
// Each insert is independent: a failed row is logged and skipped, never
// rolled back.
func seed(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		logger.Debug().Int("rows", count).Msg("store already populated, skipping seed")
		return nil
	}

	for _, p := range seedPersons {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO persons (name, address) VALUES (?, ?)`, p.name, p.address,
		); err != nil {
			logger.Error().Err(err).Str("name", p.name).Msg("seed insert failed")
			continue
		}
		logger.Info().Str("name", p.name).Msg("seeded person")
	}
	return nil
}
