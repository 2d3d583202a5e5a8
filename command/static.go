package command

import (
	"context"
	"fmt"
	"strings"

	"postbot/model"
	"postbot/utils"
)

const recentSubmissionsLimit = 10

// Sender delivers plain text replies.
type Sender interface {
	SendText(ctx context.Context, recipient, text string) error
}

// SubmissionLister reads the submission ledger.
type SubmissionLister interface {
	RecentSubmissions(ctx context.Context, limit int) ([]model.Submission, error)
	CountSubmissions(ctx context.Context) (int, error)
}

// Responder answers the stateless commands and unsolicited messages.
type Responder struct {
	sender    Sender
	ledger    SubmissionLister
	reviewers []string
	prefix    string
}

// NewResponder builds a responder. ledger may be nil; prefix is how commands
// are typed on the transport, "/" on Telegram.
func NewResponder(sender Sender, ledger SubmissionLister, reviewers []string, prefix string) *Responder {
	if prefix == "" {
		prefix = "/"
	}
	return &Responder{sender: sender, ledger: ledger, reviewers: reviewers, prefix: prefix}
}

// Start greets the user.
func (r *Responder) Start(ctx context.Context, ev model.Event) error {
	name := ev.Handle
	if name == "" {
		name = "there"
	}
	return r.reply(ctx, ev, fmt.Sprintf("Hi, %s! Use %shelp to see the list of commands.", name, r.prefix))
}

// Help lists the public commands.
func (r *Responder) Help(ctx context.Context, ev model.Event) error {
	var b strings.Builder
	for i, d := range Public() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s%s - %s", r.prefix, d.Name, d.Description)
	}
	return r.reply(ctx, ev, b.String())
}

// ID tells the user their id.
func (r *Responder) ID(ctx context.Context, ev model.Event) error {
	return r.reply(ctx, ev, "Your user ID: "+ev.SubmitterID)
}

// Fumo echoes the arguments with a fumo face.
func (r *Responder) Fumo(ctx context.Context, ev model.Event) error {
	return r.reply(ctx, ev, ev.Args+" ᗜˬᗜ")
}

// Submissions lists the latest ledger rows to reviewers.
func (r *Responder) Submissions(ctx context.Context, ev model.Event) error {
	if !utils.IsReviewer(ev.SubmitterID, r.reviewers) {
		return r.Fallback(ctx, ev)
	}
	if r.ledger == nil {
		return r.reply(ctx, ev, "The submission ledger is disabled.")
	}

	subs, err := r.ledger.RecentSubmissions(ctx, recentSubmissionsLimit)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	if len(subs) == 0 {
		return r.reply(ctx, ev, FormatSubmissions(subs))
	}

	total, err := r.ledger.CountSubmissions(ctx)
	if err != nil {
		return fmt.Errorf("count submissions: %w", err)
	}
	return r.reply(ctx, ev, fmt.Sprintf("Total submissions: %d\n%s", total, FormatSubmissions(subs)))
}

// Fallback answers messages that are not part of any conversation.
func (r *Responder) Fallback(ctx context.Context, ev model.Event) error {
	return r.reply(ctx, ev, r.response(ev.Text))
}

func (r *Responder) response(text string) string {
	if strings.Contains(strings.ToLower(text), "fumo") {
		return "Fumo enjoyer!"
	}
	return fmt.Sprintf("I can't answer messages.\nUse a command from the %shelp list.", r.prefix)
}

func (r *Responder) reply(ctx context.Context, ev model.Event, text string) error {
	return r.sender.SendText(ctx, ev.SubmitterID, text)
}

// FormatSubmissions renders ledger rows one per line.
func FormatSubmissions(subs []model.Submission) string {
	if len(subs) == 0 {
		return "No submissions yet."
	}

	var b strings.Builder
	for i, s := range subs {
		if i > 0 {
			b.WriteByte('\n')
		}
		who := "anonymous"
		if !s.IsAnonymous {
			who = s.SubmitterID
			if s.SubmitterHandle != "" {
				who = "@" + s.SubmitterHandle + " (" + s.SubmitterID + ")"
			}
		}
		fmt.Fprintf(&b, "#%d %s %s, %d item(s), %s, delivered %d/%d",
			s.Number, s.CreatedAt.Format("2006-01-02 15:04"), s.Kind, s.ItemCount, who, s.Delivered, s.Delivered+s.Failed)
	}
	return b.String()
}
