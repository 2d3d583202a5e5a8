package workflow_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"postbot/model"
	"postbot/workflow"
)

func TestStoreCreateRejectsSecondConversation(t *testing.T) {
	s := workflow.NewStore()

	first, err := s.Create("1", "alice", "1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Step != model.StepAwaitingAnonymityChoice {
		t.Fatalf("expected initial step %s, got %s", model.StepAwaitingAnonymityChoice, first.Step)
	}
	if first.ID == "" {
		t.Fatalf("expected conversation id")
	}

	if _, err := s.Create("1", "alice", "1"); !errors.Is(err, workflow.ErrConversationActive) {
		t.Fatalf("expected ErrConversationActive, got %v", err)
	}

	got, ok := s.Get("1")
	if !ok || got.ID != first.ID {
		t.Fatalf("expected original conversation to survive, got %+v", got)
	}
}

func TestStoreAdvanceToDoneDestroys(t *testing.T) {
	s := workflow.NewStore()
	s.Create("1", "alice", "1")

	if err := s.Advance("1", model.StepAwaitingContent); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got, _ := s.Get("1"); got.Step != model.StepAwaitingContent {
		t.Fatalf("expected awaiting content, got %s", got.Step)
	}

	if err := s.Advance("1", model.StepDone); err != nil {
		t.Fatalf("advance to done: %v", err)
	}
	if _, ok := s.Get("1"); ok {
		t.Fatalf("expected conversation to be destroyed")
	}
	if err := s.Advance("1", model.StepAwaitingContent); !errors.Is(err, workflow.ErrNoActiveConversation) {
		t.Fatalf("expected ErrNoActiveConversation, got %v", err)
	}
}

func TestStoreUpdateErrorLeavesEntryUntouched(t *testing.T) {
	s := workflow.NewStore()
	s.Create("1", "alice", "1")

	boom := errors.New("boom")
	_, err := s.Update("1", func(c *model.Conversation) error {
		c.IsAnonymous = true
		c.Step = model.StepAwaitingContent
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := s.Get("1")
	if got.IsAnonymous || got.Step != model.StepAwaitingAnonymityChoice {
		t.Fatalf("expected unchanged entry, got %+v", got)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := workflow.NewStore()
	s.Create("1", "alice", "1")

	got, _ := s.Get("1")
	got.IsAnonymous = true

	again, _ := s.Get("1")
	if again.IsAnonymous {
		t.Fatalf("mutating a copy must not change the store")
	}
}

func TestStoreClaimOnlyOnce(t *testing.T) {
	s := workflow.NewStore()
	conv, _ := s.Create("1", "alice", "1")

	if _, ok := s.Claim("1", "other-conversation"); ok {
		t.Fatalf("claim with a foreign conversation id must fail")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if claimed, ok := s.Claim("1", conv.ID); ok {
				if claimed.Step != model.StepDone {
					t.Errorf("claimed conversation should be done, got %s", claimed.Step)
				}
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one claim, got %d", wins)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestStoreIsolatesSubmitters(t *testing.T) {
	s := workflow.NewStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		id := fmt.Sprint(i)
		s.Create(id, "user"+id, id)
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			s.Update(id, func(c *model.Conversation) error {
				c.IsAnonymous = i%2 == 0
				if i%3 == 0 {
					c.Step = model.StepAwaitingContent
				}
				return nil
			})
		}(i, id)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		got, ok := s.Get(fmt.Sprint(i))
		if !ok {
			t.Fatalf("missing conversation %d", i)
		}
		if got.IsAnonymous != (i%2 == 0) {
			t.Fatalf("conversation %d: anonymity flag leaked, got %v", i, got.IsAnonymous)
		}
		wantStep := model.StepAwaitingAnonymityChoice
		if i%3 == 0 {
			wantStep = model.StepAwaitingContent
		}
		if got.Step != wantStep {
			t.Fatalf("conversation %d: expected step %s, got %s", i, wantStep, got.Step)
		}
	}
}
