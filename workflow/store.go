package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"postbot/model"
)

// Store holds one conversation per submitter. Callers always receive copies;
// mutation goes through Update so it happens under the lock.
type Store struct {
	mu      sync.Mutex
	entries map[string]*model.Conversation
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*model.Conversation),
		now:     time.Now,
	}
}

// Create starts a conversation for submitterID. It fails with
// ErrConversationActive when one already exists.
func (s *Store) Create(submitterID, handle, chatID string) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[submitterID]; exists {
		return model.Conversation{}, ErrConversationActive
	}

	conv := &model.Conversation{
		ID:              uuid.New().String(),
		SubmitterID:     submitterID,
		SubmitterHandle: handle,
		ChatID:          chatID,
		Step:            model.StepAwaitingAnonymityChoice,
		CreatedAt:       s.now(),
	}
	s.entries[submitterID] = conv
	return *conv, nil
}

// Get returns a copy of the submitter's conversation.
func (s *Store) Get(submitterID string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.entries[submitterID]
	if !ok {
		return model.Conversation{}, false
	}
	return *conv, true
}

// Advance moves the conversation to step. Reaching StepDone removes it.
func (s *Store) Advance(submitterID string, step model.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.entries[submitterID]
	if !ok {
		return ErrNoActiveConversation
	}
	if step == model.StepDone {
		delete(s.entries, submitterID)
		return nil
	}
	conv.Step = step
	return nil
}

// Update runs fn on the submitter's conversation under the lock. If fn
// returns an error the conversation is left untouched.
func (s *Store) Update(submitterID string, fn func(*model.Conversation) error) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.entries[submitterID]
	if !ok {
		return model.Conversation{}, ErrNoActiveConversation
	}

	next := *conv
	if err := fn(&next); err != nil {
		return *conv, err
	}
	if next.Step == model.StepDone {
		delete(s.entries, submitterID)
		return next, nil
	}
	*conv = next
	return next, nil
}

// Claim removes the conversation if it is still the one identified by
// conversationID. Only one caller can win the claim for a conversation.
func (s *Store) Claim(submitterID, conversationID string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.entries[submitterID]
	if !ok || conv.ID != conversationID {
		return model.Conversation{}, false
	}
	delete(s.entries, submitterID)

	claimed := *conv
	claimed.Step = model.StepDone
	return claimed, true
}

// Destroy removes the submitter's conversation and reports whether one existed.
func (s *Store) Destroy(submitterID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[submitterID]; !ok {
		return false
	}
	delete(s.entries, submitterID)
	return true
}

// Len returns the number of active conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
