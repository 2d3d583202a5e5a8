package workflow

import "postbot/model"

// TransitionKind tags the outcome of a step handler.
type TransitionKind int

const (
	TransitionAdvance TransitionKind = iota
	TransitionRetry
	TransitionTerminate
)

// Transition is the result of feeding one reply into a conversation step.
type Transition struct {
	Kind    TransitionKind
	Next    model.Step // set for TransitionAdvance
	Message string     // set for TransitionRetry and TransitionTerminate
}

func Advance(next model.Step) Transition {
	return Transition{Kind: TransitionAdvance, Next: next}
}

func Retry(message string) Transition {
	return Transition{Kind: TransitionRetry, Message: message}
}

func Terminate(message string) Transition {
	return Transition{Kind: TransitionTerminate, Message: message}
}
