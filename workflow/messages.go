package workflow

import (
	"fmt"

	"postbot/model"
)

const (
	msgAnonymityQuestion = "Do you want to send the post anonymously?"
	msgInvalidAnswer     = "Invalid answer. Please try again."
	msgTooManyRetries    = "Too many invalid answers. The submission was cancelled."
	msgStartOver         = "Send %spost to start over."
	msgContentPrompt     = "Send your post (up to 10 files):"
	msgStillReceiving    = "Your files are still being received, please wait a moment."
	msgAlreadyActive     = "You already have a submission in progress. Send %scancel to abort it."
	msgCancelled         = "Cancelled."
	msgNothingToCancel   = "Nothing to cancel."
	msgThanks            = "Thank you! Your post has been sent to the administrators for review!"

	optionYes = "Yes"
	optionNo  = "No"
)

// NotificationText is what reviewers read before the forwarded content.
func NotificationText(a model.Attribution) string {
	if a.IsAnonymous {
		return "An anonymous user submitted a post."
	}
	if a.SubmitterHandle == "" {
		return fmt.Sprintf("%s submitted a post.", a.SubmitterID)
	}
	return fmt.Sprintf("@%s (%s) submitted a post.", a.SubmitterHandle, a.SubmitterID)
}
