package workflow_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"postbot/model"
	"postbot/workflow"
)

type flushRecorder struct {
	mu   sync.Mutex
	jobs []workflow.BatchJob
	ch   chan workflow.BatchJob
}

func newFlushRecorder() *flushRecorder {
	return &flushRecorder{ch: make(chan workflow.BatchJob, 16)}
}

func (r *flushRecorder) flush(job workflow.BatchJob) {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	r.ch <- job
}

func (r *flushRecorder) flushed() []workflow.BatchJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]workflow.BatchJob(nil), r.jobs...)
}

func photo(group string, n int) model.MediaItem {
	return model.MediaItem{
		Kind:            model.MediaPhoto,
		ContentRef:      fmt.Sprintf("file-%d", n),
		Caption:         fmt.Sprintf("caption %d", n),
		OriginMessageID: fmt.Sprint(n),
		GroupID:         group,
	}
}

func refs(items []model.MediaItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ContentRef
	}
	return out
}

func TestCollectorDebouncesGroup(t *testing.T) {
	sched := &manualScheduler{}
	rec := newFlushRecorder()
	c := workflow.NewCollector(2*time.Second, sched, rec.flush)
	owner := model.Attribution{ConversationID: "conv-1", SubmitterID: "1"}

	if !c.Add(photo("g1", 1), owner) {
		t.Fatalf("first item must create the job")
	}
	for i := 2; i <= 5; i++ {
		sched.Advance(1500 * time.Millisecond)
		if c.Add(photo("g1", i), owner) {
			t.Fatalf("item %d must append to the existing job", i)
		}
	}

	sched.Advance(1999 * time.Millisecond)
	if got := len(rec.flushed()); got != 0 {
		t.Fatalf("expected no flush before the quiet period, got %d", got)
	}

	sched.Advance(time.Millisecond)
	jobs := rec.flushed()
	if len(jobs) != 1 {
		t.Fatalf("expected exactly one flush, got %d", len(jobs))
	}
	want := []string{"file-1", "file-2", "file-3", "file-4", "file-5"}
	if got := refs(jobs[0].Items); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected items %v in arrival order, got %v", want, got)
	}
	if jobs[0].ConversationID != "conv-1" || jobs[0].GroupID != "g1" {
		t.Fatalf("unexpected job identity: %+v", jobs[0])
	}
	if c.Pending("g1") {
		t.Fatalf("job must be destroyed after flush")
	}
}

func TestCollectorSplitsOnGap(t *testing.T) {
	sched := &manualScheduler{}
	rec := newFlushRecorder()
	c := workflow.NewCollector(2*time.Second, sched, rec.flush)
	owner := model.Attribution{ConversationID: "conv-1", SubmitterID: "1"}

	c.Add(photo("g1", 1), owner)
	sched.Advance(time.Second)
	c.Add(photo("g1", 2), owner)
	sched.Advance(3 * time.Second)

	if !c.Route(photo("g1", 3)) {
		t.Fatalf("straggler of a recently flushed group must be routed")
	}
	sched.Advance(2 * time.Second)

	jobs := rec.flushed()
	if len(jobs) != 2 {
		t.Fatalf("expected two batches, got %d", len(jobs))
	}
	if got := refs(jobs[0].Items); fmt.Sprint(got) != "[file-1 file-2]" {
		t.Fatalf("unexpected first batch %v", got)
	}
	if got := refs(jobs[1].Items); fmt.Sprint(got) != "[file-3]" {
		t.Fatalf("unexpected second batch %v", got)
	}
	if jobs[1].Attribution != owner {
		t.Fatalf("second batch must keep the owner, got %+v", jobs[1].Attribution)
	}
}

func TestCollectorKeepsGroupsApart(t *testing.T) {
	sched := &manualScheduler{}
	rec := newFlushRecorder()
	c := workflow.NewCollector(time.Second, sched, rec.flush)

	c.Add(photo("a", 1), model.Attribution{ConversationID: "A"})
	c.Add(photo("b", 2), model.Attribution{ConversationID: "B"})
	c.Add(photo("a", 3), model.Attribution{ConversationID: "A"})
	if c.Len() != 2 {
		t.Fatalf("expected two pending jobs, got %d", c.Len())
	}

	sched.Advance(time.Second)

	got := map[string][]string{}
	for _, job := range rec.flushed() {
		got[job.ConversationID] = refs(job.Items)
	}
	if fmt.Sprint(got["A"]) != "[file-1 file-3]" || fmt.Sprint(got["B"]) != "[file-2]" {
		t.Fatalf("unexpected batches %v", got)
	}
}

func TestCollectorRouteUnknownGroup(t *testing.T) {
	c := workflow.NewCollector(time.Second, &manualScheduler{}, nil)
	if c.Route(photo("nope", 1)) {
		t.Fatalf("unknown group must not be routed")
	}
}

func TestCollectorFlushAllAndClose(t *testing.T) {
	sched := &manualScheduler{}
	rec := newFlushRecorder()
	c := workflow.NewCollector(time.Second, sched, rec.flush)

	c.Add(photo("g1", 1), model.Attribution{ConversationID: "A"})
	c.Add(photo("g2", 2), model.Attribution{ConversationID: "B"})
	c.FlushAll()
	if got := len(rec.flushed()); got != 2 {
		t.Fatalf("expected 2 flushed jobs, got %d", got)
	}

	// Timers stopped by FlushAll must not deliver again.
	sched.Advance(time.Minute)
	if got := len(rec.flushed()); got != 2 {
		t.Fatalf("expected no further flushes, got %d", got)
	}

	c.Add(photo("g3", 3), model.Attribution{ConversationID: "C"})
	c.Close()
	sched.Advance(time.Minute)
	if got := len(rec.flushed()); got != 2 {
		t.Fatalf("closed collector must drop pending jobs, got %d flushes", got)
	}
	if c.Add(photo("g4", 4), model.Attribution{}) {
		t.Fatalf("closed collector must ignore new items")
	}
}

func TestCollectorWithSystemTimers(t *testing.T) {
	rec := newFlushRecorder()
	c := workflow.NewCollector(50*time.Millisecond, nil, rec.flush)
	owner := model.Attribution{ConversationID: "conv"}

	for i := 1; i <= 3; i++ {
		c.Add(photo("g", i), owner)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case job := <-rec.ch:
		if got := refs(job.Items); fmt.Sprint(got) != "[file-1 file-2 file-3]" {
			t.Fatalf("unexpected batch %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("batch was never flushed")
	}

	select {
	case job := <-rec.ch:
		t.Fatalf("unexpected second flush %+v", job)
	case <-time.After(150 * time.Millisecond):
	}
}
