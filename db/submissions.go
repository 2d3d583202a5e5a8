package db

import (
	"context"
	"fmt"
	"time"

	"postbot/model"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(scanner rowScanner) (model.Submission, error) {
	var (
		sub       model.Submission
		kind      string
		createdAt int64
	)
	err := scanner.Scan(
		&sub.ID, &sub.Number, &sub.SubmitterID, &sub.SubmitterHandle, &sub.IsAnonymous,
		&kind, &sub.ItemCount, &sub.Delivered, &sub.Failed, &createdAt,
	)
	if err != nil {
		return sub, err
	}
	sub.Kind = model.SubmissionKind(kind)
	sub.CreatedAt = time.Unix(createdAt, 0)
	return sub, nil
}

// RecordSubmission stores sub and assigns it the next submission number.
func (l *Ledger) RecordSubmission(ctx context.Context, sub model.Submission) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	number, err := nextSubmissionNumber(tx)
	if err != nil {
		return fmt.Errorf("next submission number: %w", err)
	}

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO submissions(
		id, number, submitter_id, submitter_handle, is_anonymous, kind, item_count, delivered, failed, created_at
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, number, sub.SubmitterID, sub.SubmitterHandle, sub.IsAnonymous,
		string(sub.Kind), sub.ItemCount, sub.Delivered, sub.Failed, sub.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	return tx.Commit()
}

// RecentSubmissions returns up to limit submissions, newest first.
func (l *Ledger) RecentSubmissions(ctx context.Context, limit int) ([]model.Submission, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT
		id, number, COALESCE(submitter_id, ''), COALESCE(submitter_handle, ''), is_anonymous,
		kind, item_count, delivered, failed, created_at
	FROM submissions ORDER BY number DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// CountSubmissions returns how many submissions were recorded.
func (l *Ledger) CountSubmissions(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&n)
	return n, err
}
