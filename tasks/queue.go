// Package tasks runs background work: alert checks, scheduled report
// generation and outbound notifications. Jobs go through an in-process
// queue so HTTP handlers never block on SMTP, Twilio or PDF rendering.
package tasks

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Args carries job parameters. Values are whatever the handler expects;
// handlers validate their own arguments.
type Args map[string]any

// Handler executes one job.
type Handler func(args Args) error

// Queue accepts fire-and-forget background jobs.
type Queue interface {
	Submit(job string, args Args)
}

// MemoryQueue is a buffered in-process queue with a fixed worker pool.
// Saturation drops the job with a log line rather than blocking the
// submitter; alert checks and report schedules all re-fire, so a dropped
// job is delayed work, not lost work.
type MemoryQueue struct {
	jobs     chan queuedJob
	handlers map[string]Handler
	workers  int
	log      *logrus.Entry

	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
}

type queuedJob struct {
	name string
	args Args
}

func NewMemoryQueue(buffer, workers int, log *logrus.Entry) *MemoryQueue {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if buffer <= 0 {
		buffer = 64
	}
	if workers <= 0 {
		workers = 2
	}
	return &MemoryQueue{
		jobs:     make(chan queuedJob, buffer),
		handlers: make(map[string]Handler),
		workers:  workers,
		log:      log,
	}
}

// Register binds a handler to a job name. Must happen before Start.
func (q *MemoryQueue) Register(job string, h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[job] = h
}

// Start launches the worker pool.
func (q *MemoryQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish. Submit must
// not be called after Stop.
func (q *MemoryQueue) Stop() {
	close(q.jobs)
	q.wg.Wait()
}

// Submit enqueues a job. Unknown job names and a full queue are both logged
// and dropped.
func (q *MemoryQueue) Submit(job string, args Args) {
	q.mu.RLock()
	_, known := q.handlers[job]
	q.mu.RUnlock()
	if !known {
		q.log.WithField("job", job).Error("unknown job submitted")
		return
	}

	select {
	case q.jobs <- queuedJob{name: job, args: args}:
	default:
		q.log.WithField("job", job).Warn("queue saturated, dropping job")
	}
}

func (q *MemoryQueue) work() {
	defer q.wg.Done()
	for j := range q.jobs {
		q.mu.RLock()
		h := q.handlers[j.name]
		q.mu.RUnlock()
		if h == nil {
			continue
		}
		if err := h(j.args); err != nil {
			q.log.WithError(err).WithField("job", j.name).Error("job failed")
		}
	}
}
