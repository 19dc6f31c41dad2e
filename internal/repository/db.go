package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			institution_id TEXT NOT NULL,
			item TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			estimated_cost INTEGER NOT NULL,
			fulfilled_quantity INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_institution ON requests(institution_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status)`,

		`CREATE TABLE IF NOT EXISTS donations (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			donor_name TEXT NOT NULL,
			donation_type TEXT NOT NULL,
			amount INTEGER NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0,
			shop_id TEXT,
			shop_recommendation TEXT,
			impact_message TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (request_id) REFERENCES requests(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_request ON donations(request_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
