package workflow

import (
	"strings"

	"golang.org/x/text/cases"

	"postbot/model"
)

type answer int

const (
	answerInvalid answer = iota
	answerYes
	answerNo
)

// Accepted replies, already case folded. The Ukrainian pair is what the
// first version of the bot offered on its keyboard.
var answers = map[string]answer{
	"yes": answerYes,
	"так": answerYes,
	"no":  answerNo,
	"ні":  answerNo,
}

func parseAnswer(reply string) answer {
	// A Caser keeps state, so each call gets its own.
	folded := cases.Fold().String(strings.TrimSpace(reply))
	return answers[folded]
}

// AnonymityGate handles the first step: whether the post is attributed.
type AnonymityGate struct {
	maxRetries int
}

// NewAnonymityGate returns a gate that terminates the conversation after
// maxRetries invalid answers. Zero retries means unbounded.
func NewAnonymityGate(maxRetries int) *AnonymityGate {
	return &AnonymityGate{maxRetries: maxRetries}
}

// Answer applies reply to conv, which must be awaiting the anonymity choice.
func (g *AnonymityGate) Answer(conv *model.Conversation, reply string) Transition {
	switch parseAnswer(reply) {
	case answerYes:
		conv.IsAnonymous = true
	case answerNo:
		conv.IsAnonymous = false
	default:
		conv.Retries++
		if g.maxRetries > 0 && conv.Retries >= g.maxRetries {
			return Terminate(msgTooManyRetries)
		}
		return Retry(msgInvalidAnswer)
	}

	conv.Retries = 0
	return Advance(model.StepAwaitingContent)
}
