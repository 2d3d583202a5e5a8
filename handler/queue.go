package handler

import (
	"context"
	"sync"

	"postbot/model"
)

// Queue runs the events of one submitter one at a time, in arrival order,
// while different submitters proceed concurrently.
type Queue struct {
	mu     sync.Mutex
	lanes  map[string][]model.Event
	handle func(context.Context, model.Event)
	wg     sync.WaitGroup
}

func NewQueue(handle func(context.Context, model.Event)) *Queue {
	return &Queue{
		lanes:  make(map[string][]model.Event),
		handle: handle,
	}
}

// Push enqueues ev. It never blocks on event handling.
func (q *Queue) Push(ctx context.Context, ev model.Event) {
	key := ev.SubmitterID

	q.mu.Lock()
	if pending, busy := q.lanes[key]; busy {
		q.lanes[key] = append(pending, ev)
		q.mu.Unlock()
		return
	}
	q.lanes[key] = nil
	q.mu.Unlock()

	q.wg.Add(1)
	go q.drain(ctx, key, ev)
}

// Wait blocks until every pushed event has been handled.
func (q *Queue) Wait() {
	q.wg.Wait()
}

func (q *Queue) drain(ctx context.Context, key string, ev model.Event) {
	defer q.wg.Done()

	for {
		q.handle(ctx, ev)

		q.mu.Lock()
		pending := q.lanes[key]
		if len(pending) == 0 {
			delete(q.lanes, key)
			q.mu.Unlock()
			return
		}
		ev = pending[0]
		q.lanes[key] = pending[1:]
		q.mu.Unlock()
	}
}
