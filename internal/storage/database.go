// Package storage handles data persistence: SQLite database and the image
// filesystem.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Blank import: registers the SQLite driver.
)

// Schema is embedded directly in the binary — no migration files need to
// exist at runtime.
//
// brand_combos is an append-mostly ledger: rows are inserted once and only
// the votes/updated_at pair ever changes afterwards. The vote path relies
// on a single-statement server-side increment, so no trigger or stored
// procedure is needed here.
const schema = `
CREATE TABLE IF NOT EXISTS brand_combos (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    slogan              TEXT NOT NULL DEFAULT '',
    description         TEXT NOT NULL DEFAULT '',
    product1            TEXT NOT NULL,
    product2            TEXT NOT NULL,
    mode                TEXT NOT NULL DEFAULT 'competitive',
    votes               INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    host_reaction       TEXT NOT NULL DEFAULT '',
    image_url           TEXT NOT NULL DEFAULT '',
    compatibility_score INTEGER NOT NULL DEFAULT 0,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS generation_calls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    product1    TEXT NOT NULL,
    product2    TEXT NOT NULL,
    mode        TEXT NOT NULL,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    success     BOOLEAN NOT NULL DEFAULT 0,
    duration_ms INTEGER,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_brand_combos_votes ON brand_combos(votes DESC, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_generation_calls_provider ON generation_calls(provider);
`

// NewDatabase creates a new SQLite connection and runs migrations.
// The constructor creates the resource AND validates it (Ping) — if
// anything fails, the caller decides what to do with the error.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// DSN pragmas:
	// - WAL mode: allows concurrent reads while writing
	// - foreign_keys: enforce referential integrity
	// - busy_timeout: wait up to 5s instead of failing on lock contention
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection. This also
	// serializes vote increments at the connection level on top of the
	// single-statement UPDATE they already use.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
