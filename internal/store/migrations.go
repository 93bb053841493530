package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the catalog tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS emails (
		id             TEXT PRIMARY KEY,
		sender         TEXT NOT NULL,
		subject        TEXT NOT NULL,
		body           TEXT NOT NULL DEFAULT '',
		received_at    TEXT NOT NULL,
		priority       TEXT NOT NULL DEFAULT 'normal',
		sentiment      TEXT NOT NULL DEFAULT 'neutral',
		status         TEXT NOT NULL DEFAULT 'pending',
		category       TEXT NOT NULL DEFAULT '',
		extracted_info TEXT NOT NULL DEFAULT '{}',
		ai_response    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_emails_status ON emails(status)`,
	`CREATE INDEX IF NOT EXISTS idx_emails_priority ON emails(priority)`,
	`CREATE INDEX IF NOT EXISTS idx_emails_received_at ON emails(received_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
