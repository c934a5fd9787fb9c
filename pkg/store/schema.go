package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
-- Generated study sessions, one row per record
CREATE TABLE IF NOT EXISTS sessions (
    seq INTEGER NOT NULL,          -- generation order
    session_id TEXT PRIMARY KEY,
    timestamp TEXT NOT NULL,
    subject TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL,
    tab_switches INTEGER NOT NULL,
    keystroke_rate_per_minute INTEGER NOT NULL,
    mouse_movements_total INTEGER NOT NULL,
    inactivity_periods_count INTEGER NOT NULL,
    scroll_events_total INTEGER NOT NULL,
    focus_classification TEXT NOT NULL,
    productivity_score INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_seq ON sessions(seq);
CREATE INDEX IF NOT EXISTS idx_sessions_focus ON sessions(focus_classification);

-- Model predictions per session
CREATE TABLE IF NOT EXISTS predictions (
    session_id TEXT NOT NULL,
    model TEXT NOT NULL,
    predicted REAL NOT NULL,
    actual REAL NOT NULL,
    abs_error REAL NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (session_id, model)
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// InitSchema creates the tables on a fresh database and records the version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Version returns the highest applied schema version.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}
