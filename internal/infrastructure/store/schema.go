package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id             UUID PRIMARY KEY,
		aggregate_id   TEXT        NOT NULL,
		aggregate_type TEXT        NOT NULL,
		event_type     TEXT        NOT NULL,
		data           JSONB       NOT NULL,
		version        INTEGER     NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (aggregate_id, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events (created_at)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		aggregate_id   TEXT PRIMARY KEY,
		aggregate_type TEXT        NOT NULL,
		version        INTEGER     NOT NULL,
		state          JSONB       NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS read_models (
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		data       JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)`,
	`CREATE TABLE IF NOT EXISTS store_settings (
		id                         INTEGER PRIMARY KEY CHECK (id = 1),
		free_shipping_threshold    NUMERIC(12,2) NOT NULL,
		standard_shipping_cost     NUMERIC(12,2) NOT NULL,
		express_shipping_cost      NUMERIC(12,2) NOT NULL,
		standard_delivery_estimate TEXT NOT NULL DEFAULT '',
		express_delivery_estimate  TEXT NOT NULL DEFAULT '',
		updated_at                 TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables used by the Postgres stores
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
