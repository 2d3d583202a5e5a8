package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"postbot/model"
)

// flushTimeout bounds the reviewer fan-out of one flushed batch.
const flushTimeout = 30 * time.Second

var errOtherGroup = errors.New("another media group is being collected")

// Options configures a Controller.
type Options struct {
	Reviewers []string
	// CommandPrefix is how users type commands, "/" when empty.
	CommandPrefix       string
	DebounceWindow      time.Duration
	MaxAnonymityRetries int
	Scheduler           Scheduler
	Ledger              Ledger
	Logger              *slog.Logger
}

// Controller drives submission conversations:
// post → anonymity choice → content → reviewers notified.
type Controller struct {
	store     *Store
	gate      *AnonymityGate
	collector *Collector
	finalizer *Finalizer
	messenger Messenger
	prefix    string
	log       *slog.Logger
}

func NewController(messenger Messenger, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	prefix := opts.CommandPrefix
	if prefix == "" {
		prefix = "/"
	}

	c := &Controller{
		store:     NewStore(),
		gate:      NewAnonymityGate(opts.MaxAnonymityRetries),
		messenger: messenger,
		prefix:    prefix,
		log:       log,
	}
	c.finalizer = NewFinalizer(messenger, opts.Reviewers, c.store, opts.Ledger, log)
	c.collector = NewCollector(opts.DebounceWindow, opts.Scheduler, c.flushBatch)
	return c
}

// Store exposes the conversation store.
func (c *Controller) Store() *Store {
	return c.store
}

// Start opens a submission for the event's sender and asks the anonymity
// question. A sender with a submission in progress is told so instead.
func (c *Controller) Start(ctx context.Context, ev model.Event) error {
	if _, err := c.store.Create(ev.SubmitterID, ev.Handle, ev.ChatID); err != nil {
		if errors.Is(err, ErrConversationActive) {
			return c.reply(ctx, ev.SubmitterID, fmt.Sprintf(msgAlreadyActive, c.prefix))
		}
		return err
	}

	c.log.Info("submission started", "submitter_id", ev.SubmitterID)
	return c.prompt(ctx, ev.SubmitterID, msgAnonymityQuestion)
}

// Cancel drops the sender's conversation. Batches already being collected
// for it still flush.
func (c *Controller) Cancel(ctx context.Context, ev model.Event) error {
	if !c.store.Destroy(ev.SubmitterID) {
		return c.reply(ctx, ev.SubmitterID, msgNothingToCancel)
	}
	c.log.Info("submission cancelled", "submitter_id", ev.SubmitterID)
	return c.reply(ctx, ev.SubmitterID, msgCancelled)
}

// HandleContent feeds a text or attachment into the sender's conversation.
// It returns ErrNoActiveConversation when the event belongs to none.
func (c *Controller) HandleContent(ctx context.Context, ev model.Event) error {
	item := ev.Item()

	conv, ok := c.store.Get(ev.SubmitterID)

	// A button answer only means something to the question it was attached to.
	if ev.Answer && (!ok || conv.Step != model.StepAwaitingAnonymityChoice) {
		c.log.Debug("ignoring stale prompt answer", "submitter_id", ev.SubmitterID)
		return nil
	}

	// Stragglers of a group owned by an earlier conversation stay with it.
	if item.Grouped() && (!ok || conv.PendingGroup != item.GroupID) && c.collector.Route(item) {
		return nil
	}
	if !ok {
		return ErrNoActiveConversation
	}

	switch conv.Step {
	case model.StepAwaitingAnonymityChoice:
		return c.answerGate(ctx, ev)
	case model.StepAwaitingContent:
		if item.Grouped() {
			return c.collect(ctx, ev.SubmitterID, item)
		}
		return c.submit(ctx, conv, item)
	default:
		return ErrNoActiveConversation
	}
}

// Flush delivers all pending batches immediately.
func (c *Controller) Flush() {
	c.collector.FlushAll()
}

// Close stops pending batch timers without delivering them.
func (c *Controller) Close() {
	c.collector.Close()
}

func (c *Controller) answerGate(ctx context.Context, ev model.Event) error {
	var t Transition
	_, err := c.store.Update(ev.SubmitterID, func(conv *model.Conversation) error {
		if conv.Step != model.StepAwaitingAnonymityChoice {
			return ErrInvalidStepInput
		}
		reply := ev.Text
		if ev.Attachment != nil {
			reply = ""
		}
		t = c.gate.Answer(conv, reply)
		if t.Kind == TransitionAdvance {
			conv.Step = t.Next
		}
		return nil
	})
	if err != nil {
		return err
	}

	switch t.Kind {
	case TransitionAdvance:
		return c.reply(ctx, ev.SubmitterID, msgContentPrompt)
	case TransitionRetry:
		return c.prompt(ctx, ev.SubmitterID, t.Message+"\n"+msgAnonymityQuestion)
	default:
		c.store.Destroy(ev.SubmitterID)
		c.log.Info("submission abandoned", "submitter_id", ev.SubmitterID)
		return c.reply(ctx, ev.SubmitterID, t.Message+" "+fmt.Sprintf(msgStartOver, c.prefix))
	}
}

func (c *Controller) collect(ctx context.Context, submitterID string, item model.MediaItem) error {
	conv, err := c.store.Update(submitterID, func(conv *model.Conversation) error {
		if conv.Step != model.StepAwaitingContent {
			return ErrInvalidStepInput
		}
		if conv.PendingGroup != "" && conv.PendingGroup != item.GroupID {
			return errOtherGroup
		}
		conv.PendingGroup = item.GroupID
		return nil
	})
	switch {
	case errors.Is(err, errOtherGroup):
		return c.reply(ctx, submitterID, msgStillReceiving)
	case err != nil:
		return err
	}

	if c.collector.Add(item, conv.Attribution()) {
		c.log.Debug("collecting media group", "submitter_id", submitterID, "group_id", item.GroupID)
	}
	return nil
}

func (c *Controller) submit(ctx context.Context, conv model.Conversation, item model.MediaItem) error {
	if conv.PendingGroup != "" {
		return c.reply(ctx, conv.SubmitterID, msgStillReceiving)
	}
	_, err := c.finalizer.Submit(ctx, conv, item)
	return err
}

func (c *Controller) flushBatch(job BatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	c.finalizer.SubmitBatch(ctx, job)
}

func (c *Controller) reply(ctx context.Context, recipient, text string) error {
	if err := c.messenger.SendText(ctx, recipient, text); err != nil {
		return &DeliveryError{Recipient: recipient, Action: "send text", Err: err}
	}
	return nil
}

func (c *Controller) prompt(ctx context.Context, recipient, text string) error {
	p, ok := c.messenger.(Prompter)
	if !ok {
		return c.reply(ctx, recipient, text+" ("+optionYes+"/"+optionNo+")")
	}
	if err := p.SendPrompt(ctx, recipient, text, []string{optionYes, optionNo}); err != nil {
		return &DeliveryError{Recipient: recipient, Action: "send prompt", Err: err}
	}
	return nil
}
