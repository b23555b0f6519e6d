package repository

import (
	"fmt"

	_ "github.com/lib/pq" // database/sql driver backing the migration connection
	"github.com/pressly/goose/v3"
)

// Migrate applies any pending goose migrations from dir.
// Migrations run over a short-lived database/sql connection at startup;
// the pgx pool used for request traffic is opened separately.
func Migrate(databaseURL, dir string) error {
	db, err := goose.OpenDBWithDriver("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
