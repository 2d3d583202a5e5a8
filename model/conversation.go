package model

import "time"

// Step is the position of a conversation in the submission workflow.
type Step int

const (
	StepAwaitingAnonymityChoice Step = iota
	StepAwaitingContent
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAwaitingAnonymityChoice:
		return "awaiting_anonymity_choice"
	case StepAwaitingContent:
		return "awaiting_content"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// Conversation holds the state of one in-progress submission.
type Conversation struct {
	ID              string
	SubmitterID     string
	SubmitterHandle string
	ChatID          string
	IsAnonymous     bool
	Step            Step
	Retries         int
	// PendingGroup is the media group currently being collected for this
	// conversation, empty when none.
	PendingGroup string
	CreatedAt    time.Time
}

// Attribution returns who the submission is credited to.
func (c Conversation) Attribution() Attribution {
	return Attribution{
		ConversationID:  c.ID,
		SubmitterID:     c.SubmitterID,
		SubmitterHandle: c.SubmitterHandle,
		ChatID:          c.ChatID,
		IsAnonymous:     c.IsAnonymous,
	}
}

// Attribution is a snapshot of the identity data needed to finalize a
// submission after its conversation may already be gone.
type Attribution struct {
	ConversationID  string
	SubmitterID     string
	SubmitterHandle string
	ChatID          string
	IsAnonymous     bool
}
