package model

import "time"

// SubmissionKind tells how the content reached the reviewers.
type SubmissionKind string

const (
	// SubmissionForward is a single message forwarded verbatim.
	SubmissionForward SubmissionKind = "forward"
	// SubmissionBatch is a media group re-sent as one grouped delivery.
	SubmissionBatch SubmissionKind = "batch"
)

// Submission represents a row of the submissions ledger.
type Submission struct {
	ID              string
	Number          int    // sequential, assigned by the ledger
	SubmitterID     string // empty when anonymous
	SubmitterHandle string // empty when anonymous
	IsAnonymous     bool
	Kind            SubmissionKind
	ItemCount       int
	Delivered       int // reviewers that received both notification and content
	Failed          int
	CreatedAt       time.Time
}
