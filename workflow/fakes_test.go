package workflow_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"postbot/model"
	"postbot/workflow"
)

type call struct {
	Kind      string // text, prompt, forward, group
	Recipient string
	Text      string
	Options   []string
	Source    string
	MessageID string
	Items     []model.MediaItem
}

var errSendFailed = errors.New("send failed")

type fakeMessenger struct {
	mu     sync.Mutex
	calls  []call
	failTo map[string]bool
}

func newFakeMessenger(failing ...string) *fakeMessenger {
	m := &fakeMessenger{failTo: make(map[string]bool)}
	for _, r := range failing {
		m.failTo[r] = true
	}
	return m
}

func (m *fakeMessenger) record(c call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if m.failTo[c.Recipient] {
		return errSendFailed
	}
	return nil
}

func (m *fakeMessenger) SendText(_ context.Context, recipient, text string) error {
	return m.record(call{Kind: "text", Recipient: recipient, Text: text})
}

func (m *fakeMessenger) SendPrompt(_ context.Context, recipient, text string, options []string) error {
	return m.record(call{Kind: "prompt", Recipient: recipient, Text: text, Options: options})
}

func (m *fakeMessenger) ForwardMessage(_ context.Context, recipient, sourceChat, messageID string) error {
	return m.record(call{Kind: "forward", Recipient: recipient, Source: sourceChat, MessageID: messageID})
}

func (m *fakeMessenger) SendMediaGroup(_ context.Context, recipient string, items []model.MediaItem) error {
	return m.record(call{Kind: "group", Recipient: recipient, Items: append([]model.MediaItem(nil), items...)})
}

func (m *fakeMessenger) to(recipient string) []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []call
	for _, c := range m.calls {
		if c.Recipient == recipient {
			out = append(out, c)
		}
	}
	return out
}

func (m *fakeMessenger) ofKind(kind string) []call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []call
	for _, c := range m.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (m *fakeMessenger) last(recipient string) call {
	calls := m.to(recipient)
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

// manualScheduler fires timers only when the test advances its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	due     time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) workflow.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, due: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock and runs due callbacks on the calling goroutine.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.due <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, t := range due {
		t.f()
	}
}

type memLedger struct {
	mu   sync.Mutex
	subs []model.Submission
}

func (l *memLedger) RecordSubmission(_ context.Context, sub model.Submission) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, sub)
	return nil
}

func (l *memLedger) all() []model.Submission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Submission(nil), l.subs...)
}
