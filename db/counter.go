package db

import "database/sql"

// nextSubmissionNumber increments and returns the submission counter inside tx.
func nextSubmissionNumber(tx *sql.Tx) (int, error) {
	var current int
	err := tx.QueryRow("SELECT current_value FROM id_counter WHERE counter_name = 'submission_number'").Scan(&current)
	if err != nil {
		return 0, err
	}

	next := current + 1
	_, err = tx.Exec("UPDATE id_counter SET current_value = ? WHERE counter_name = 'submission_number'", next)
	if err != nil {
		return 0, err
	}

	return next, nil
}
