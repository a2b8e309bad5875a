package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DB wraps the archive database handle
type DB struct {
	*sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at_ms INTEGER NOT NULL,
	start_year INTEGER NOT NULL,
	end_year INTEGER NOT NULL,
	regions TEXT NOT NULL,
	segments TEXT NOT NULL,
	manufacturers TEXT NOT NULL,
	record_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_records (
	run_id TEXT NOT NULL REFERENCES runs(id),
	ordinal INTEGER NOT NULL,
	year INTEGER NOT NULL,
	manufacturer TEXT NOT NULL,
	region TEXT NOT NULL,
	segment TEXT NOT NULL,
	market_share TEXT NOT NULL,
	revenue TEXT NOT NULL,
	strategy TEXT NOT NULL,
	PRIMARY KEY (run_id, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at_ms);
`

// Open opens the archive database at path, creating it and applying the
// schema when needed. Use ":memory:" for an ephemeral archive.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	// sqlite allows one writer, and in-memory databases exist per connection;
	// a single pooled connection keeps both cases correct
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply archive schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database handle
func (db *DB) Close() error {
	return db.DB.Close()
}
