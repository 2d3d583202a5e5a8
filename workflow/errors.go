package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrConversationActive is returned when a submitter starts a second
	// submission while one is in progress.
	ErrConversationActive = errors.New("conversation already active")
	// ErrNoActiveConversation is returned for content from a submitter
	// without a conversation.
	ErrNoActiveConversation = errors.New("no active conversation")
	// ErrInvalidStepInput is returned when a reply does not fit the current step.
	ErrInvalidStepInput = errors.New("invalid input for current step")
)

// DeliveryError describes one failed outbound action towards a recipient.
type DeliveryError struct {
	Recipient string
	Action    string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s to %s: %v", e.Action, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
