package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY CHECK(id = 'current'),
		token      TEXT NOT NULL,
		username   TEXT NOT NULL DEFAULT '',
		issued_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS commit_log (
		id           TEXT PRIMARY KEY,
		content_type TEXT NOT NULL
		             CHECK(content_type IN ('projects','experiences','technologies','services','testimonials')),
		item_count   INTEGER NOT NULL DEFAULT 0,
		succeeded    INTEGER NOT NULL DEFAULT 0,
		error        TEXT NOT NULL DEFAULT '',
		started_at   TEXT NOT NULL,
		finished_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_commit_log_started ON commit_log(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_commit_log_type ON commit_log(content_type, started_at)`,
}
