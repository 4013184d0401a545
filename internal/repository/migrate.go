package repository

import (
	"context"
	"fmt"
)

const runsTable = "mapping_runs"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS mapping_runs (
	id                VARCHAR(36) PRIMARY KEY,
	source            TEXT NOT NULL,
	status            VARCHAR(16) NOT NULL,
	scope_text        TEXT NOT NULL,
	ocr_results       TEXT,
	result            TEXT,
	quality_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
	scope_count       INTEGER NOT NULL DEFAULT 0,
	measurement_count INTEGER NOT NULL DEFAULT 0,
	error_message     TEXT,
	created_at        VARCHAR(40) NOT NULL,
	finished_at       VARCHAR(40)
)`,
	`CREATE INDEX IF NOT EXISTS mapping_runs_created_at ON mapping_runs (created_at)`,
}

// Migrate creates the tables the repositories need. It is safe to run repeatedly.
func (d *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if err := d.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	d.logger.Info("database migrated", "statements", len(migrations))
	return nil
}
