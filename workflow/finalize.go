package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"postbot/model"
)

// Messenger executes outbound actions on the transport. Recipients are user
// ids; the transport resolves them to chats.
type Messenger interface {
	SendText(ctx context.Context, recipient, text string) error
	ForwardMessage(ctx context.Context, recipient, sourceChat, messageID string) error
	SendMediaGroup(ctx context.Context, recipient string, items []model.MediaItem) error
}

// Prompter is implemented by transports that can offer reply buttons.
type Prompter interface {
	SendPrompt(ctx context.Context, recipient, text string, options []string) error
}

// Ledger records finalized submissions.
type Ledger interface {
	RecordSubmission(ctx context.Context, sub model.Submission) error
}

// Report summarizes the reviewer fan-out of one submission.
type Report struct {
	Reviewers int
	Delivered int
	Failed    int
	Errors    []error
}

// Finalizer notifies reviewers about a submission and hands them its content.
type Finalizer struct {
	messenger Messenger
	reviewers []string
	store     *Store
	ledger    Ledger
	log       *slog.Logger
	now       func() time.Time
}

func NewFinalizer(messenger Messenger, reviewers []string, store *Store, ledger Ledger, log *slog.Logger) *Finalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Finalizer{
		messenger: messenger,
		reviewers: append([]string(nil), reviewers...),
		store:     store,
		ledger:    ledger,
		log:       log,
		now:       time.Now,
	}
}

// Submit finalizes a conversation with a single standalone message, which
// reviewers receive as a verbatim forward. The conversation is claimed before
// anything is sent, so a conversation is finalized at most once.
func (f *Finalizer) Submit(ctx context.Context, conv model.Conversation, item model.MediaItem) (Report, error) {
	claimed, ok := f.store.Claim(conv.SubmitterID, conv.ID)
	if !ok {
		return Report{}, ErrNoActiveConversation
	}

	attr := claimed.Attribution()
	report := f.fanOut(ctx, attr, "forward", func(reviewer string) error {
		return f.messenger.ForwardMessage(ctx, reviewer, item.OriginChatID, item.OriginMessageID)
	})
	f.complete(ctx, attr, model.SubmissionForward, 1, report)
	return report, nil
}

// SubmitBatch finalizes a flushed media group. The owning conversation is
// claimed if it still exists; a batch whose conversation was cancelled is
// delivered all the same.
func (f *Finalizer) SubmitBatch(ctx context.Context, job BatchJob) Report {
	if len(job.Items) == 0 {
		return Report{}
	}
	if _, ok := f.store.Claim(job.Attribution.SubmitterID, job.ConversationID); !ok {
		f.log.Info("flushing batch without active conversation",
			"group_id", job.GroupID,
			"submitter_id", job.Attribution.SubmitterID,
		)
	}

	report := f.fanOut(ctx, job.Attribution, "send media group", func(reviewer string) error {
		return f.messenger.SendMediaGroup(ctx, reviewer, job.Items)
	})
	f.complete(ctx, job.Attribution, model.SubmissionBatch, len(job.Items), report)
	return report
}

// fanOut sends the notification and the content to each reviewer in turn.
// A failure towards one reviewer never stops the others.
func (f *Finalizer) fanOut(ctx context.Context, attr model.Attribution, action string, content func(reviewer string) error) Report {
	text := NotificationText(attr)
	report := Report{Reviewers: len(f.reviewers)}

	for _, reviewer := range f.reviewers {
		ok := true
		if err := f.messenger.SendText(ctx, reviewer, text); err != nil {
			ok = false
			report.Errors = append(report.Errors, &DeliveryError{Recipient: reviewer, Action: "send notification", Err: err})
			f.log.Error("failed to notify reviewer", "reviewer_id", reviewer, "error", err)
		}
		if err := content(reviewer); err != nil {
			ok = false
			report.Errors = append(report.Errors, &DeliveryError{Recipient: reviewer, Action: action, Err: err})
			f.log.Error("failed to deliver content to reviewer", "reviewer_id", reviewer, "action", action, "error", err)
		}
		if ok {
			report.Delivered++
		} else {
			report.Failed++
		}
	}
	return report
}

func (f *Finalizer) complete(ctx context.Context, attr model.Attribution, kind model.SubmissionKind, items int, report Report) {
	if err := f.messenger.SendText(ctx, attr.SubmitterID, msgThanks); err != nil {
		f.log.Error("failed to acknowledge submission", "submitter_id", attr.SubmitterID, "error", err)
	}

	log := f.log.With("submitter_id", attr.SubmitterID, "kind", kind)
	log.Info("submission delivered",
		"items", items,
		"delivered", report.Delivered,
		"failed", report.Failed,
	)

	if f.ledger == nil {
		return
	}
	sub := model.Submission{
		ID:          uuid.New().String(),
		IsAnonymous: attr.IsAnonymous,
		Kind:        kind,
		ItemCount:   items,
		Delivered:   report.Delivered,
		Failed:      report.Failed,
		CreatedAt:   f.now(),
	}
	if !attr.IsAnonymous {
		sub.SubmitterID = attr.SubmitterID
		sub.SubmitterHandle = attr.SubmitterHandle
	}
	if err := f.ledger.RecordSubmission(ctx, sub); err != nil {
		log.Error("failed to record submission", "error", err)
	}
}
