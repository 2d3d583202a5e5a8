package db

import (
	"database/sql"
	"fmt"
)

// createTables creates the ledger tables when they are missing.
func createTables(conn *sql.DB) error {
	createSubmissionsTableSQL := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		number INTEGER NOT NULL,
		submitter_id TEXT,
		submitter_handle TEXT,
		is_anonymous INTEGER NOT NULL DEFAULT 0,
		kind TEXT NOT NULL,
		item_count INTEGER NOT NULL DEFAULT 1,
		delivered INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);`

	if _, err := conn.Exec(createSubmissionsTableSQL); err != nil {
		return fmt.Errorf("create submissions table: %w", err)
	}

	// Sequential submission numbers shown to reviewers.
	createIdCounterTableSQL := `
	CREATE TABLE IF NOT EXISTS id_counter (
		counter_name TEXT PRIMARY KEY,
		current_value INTEGER NOT NULL DEFAULT 0
	);`

	if _, err := conn.Exec(createIdCounterTableSQL); err != nil {
		return fmt.Errorf("create id_counter table: %w", err)
	}

	_, err := conn.Exec("INSERT OR IGNORE INTO id_counter(counter_name, current_value) VALUES('submission_number', 0)")
	if err != nil {
		return fmt.Errorf("initialize submission counter: %w", err)
	}
	return nil
}
