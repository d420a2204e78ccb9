package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id UUID PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		domain TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sites_domain ON sites (domain)`,
	`CREATE TABLE IF NOT EXISTS selectors (
		id UUID PRIMARY KEY,
		site_id UUID NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		selector_type TEXT NOT NULL,
		selector_value TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		examples JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (site_id, selector_type)
	)`,
	`CREATE TABLE IF NOT EXISTS selector_history (
		id UUID PRIMARY KEY,
		selector_id UUID NOT NULL REFERENCES selectors(id) ON DELETE CASCADE,
		selector_value TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		replaced_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_selector_history_selector ON selector_history (selector_id)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
