package workflow

import (
	"sync"
	"time"

	"postbot/model"
)

// DefaultDebounceWindow is the quiet period after which a media group flushes.
const DefaultDebounceWindow = 2 * time.Second

// ownerRetention is how long the owner of a flushed group is remembered, so
// stragglers that arrive after a gap still flush as a second batch.
const ownerRetention = time.Minute

// BatchJob is a media group being collected.
type BatchJob struct {
	GroupID        string
	Items          []model.MediaItem
	DueAt          time.Time
	ConversationID string
	Attribution    model.Attribution
}

// FlushFunc receives a completed batch. It runs on the timer goroutine.
type FlushFunc func(job BatchJob)

type pendingJob struct {
	BatchJob
	timer Timer
	seq   uint64
}

type flushedOwner struct {
	owner   model.Attribution
	expires time.Time
}

// Collector coalesces attachments sharing a group id into one batch. Each new
// item reschedules the group's flush, so a batch is delivered only after the
// group has been quiet for the debounce window.
type Collector struct {
	mu      sync.Mutex
	jobs    map[string]*pendingJob
	flushed map[string]flushedOwner
	seq     uint64
	closed  bool

	window time.Duration
	sched  Scheduler
	now    func() time.Time
	flush  FlushFunc
}

func NewCollector(window time.Duration, sched Scheduler, flush FlushFunc) *Collector {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	if sched == nil {
		sched = SystemScheduler
	}
	return &Collector{
		jobs:    make(map[string]*pendingJob),
		flushed: make(map[string]flushedOwner),
		window:  window,
		sched:   sched,
		now:     time.Now,
		flush:   flush,
	}
}

// Add appends item to its group's job, creating the job for owner when the
// group is new. It reports whether a job was created.
func (c *Collector) Add(item model.MediaItem, owner model.Attribution) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	if job, ok := c.jobs[item.GroupID]; ok {
		job.Items = append(job.Items, item)
		c.arm(job)
		return false
	}

	job := &pendingJob{BatchJob: BatchJob{
		GroupID:        item.GroupID,
		Items:          []model.MediaItem{item},
		ConversationID: owner.ConversationID,
		Attribution:    owner,
	}}
	c.jobs[item.GroupID] = job
	c.arm(job)
	return true
}

// Route adds item to a group the collector already knows about: a pending
// job, or a group flushed recently. It reports false for unknown groups.
func (c *Collector) Route(item model.MediaItem) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if job, ok := c.jobs[item.GroupID]; ok {
		job.Items = append(job.Items, item)
		c.arm(job)
		c.mu.Unlock()
		return true
	}
	c.pruneLocked()
	prev, ok := c.flushed[item.GroupID]
	c.mu.Unlock()

	if !ok {
		return false
	}
	c.Add(item, prev.owner)
	return true
}

// Pending reports whether a job exists for groupID.
func (c *Collector) Pending(groupID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.jobs[groupID]
	return ok
}

// Len returns the number of pending jobs.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.jobs)
}

// FlushAll delivers every pending job now, in no particular order.
func (c *Collector) FlushAll() {
	c.mu.Lock()
	jobs := make([]BatchJob, 0, len(c.jobs))
	for id, job := range c.jobs {
		job.timer.Stop()
		delete(c.jobs, id)
		jobs = append(jobs, job.BatchJob)
	}
	c.mu.Unlock()

	for _, job := range jobs {
		c.deliver(job)
	}
}

// Close stops all timers and drops pending jobs. Later items are ignored.
func (c *Collector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, job := range c.jobs {
		job.timer.Stop()
		delete(c.jobs, id)
	}
}

// arm (re)schedules the job's flush. The previous timer is stopped first; if
// it already fired, its callback carries a stale sequence number and does
// nothing.
func (c *Collector) arm(job *pendingJob) {
	if job.timer != nil {
		job.timer.Stop()
	}
	c.seq++
	seq := c.seq
	groupID := job.GroupID

	job.seq = seq
	job.DueAt = c.now().Add(c.window)
	job.timer = c.sched.AfterFunc(c.window, func() {
		c.fire(groupID, seq)
	})
}

func (c *Collector) fire(groupID string, seq uint64) {
	c.mu.Lock()
	job, ok := c.jobs[groupID]
	if !ok || job.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.jobs, groupID)
	c.flushed[groupID] = flushedOwner{
		owner:   job.Attribution,
		expires: c.now().Add(ownerRetention),
	}
	c.mu.Unlock()

	c.deliver(job.BatchJob)
}

func (c *Collector) deliver(job BatchJob) {
	if len(job.Items) == 0 || c.flush == nil {
		return
	}
	c.flush(job)
}

func (c *Collector) pruneLocked() {
	now := c.now()
	for id, f := range c.flushed {
		if now.After(f.expires) {
			delete(c.flushed, id)
		}
	}
}
