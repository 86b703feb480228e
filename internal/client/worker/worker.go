// Package worker runs submitted jobs one at a time on a single background
// goroutine. Every local-store and mode-flag operation goes through one Queue,
// so they never overlap and run in submission order.
package worker

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
)

// Job is a unit of work executed on the queue goroutine.
type Job func(ctx context.Context) error

type task struct {
	ctx  context.Context
	job  Job
	done chan error
}

// Queue is a FIFO executor backed by exactly one goroutine.
type Queue struct {
	tasks chan task

	mu     sync.RWMutex
	closed bool

	wg sync.WaitGroup
}

// New starts a queue whose pending-job buffer holds size entries.
func New(size int) *Queue {
	if size < 0 {
		size = 0
	}
	q := &Queue{tasks: make(chan task, size)}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for t := range q.tasks {
		var err error
		if cerr := t.ctx.Err(); cerr != nil {
			err = cerr
		} else {
			err = t.job(t.ctx)
		}
		if t.done != nil {
			t.done <- err
		}
	}
}

func (q *Queue) enqueue(ctx context.Context, t task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return common.ErrRepositoryClosed
	}
	select {
	case q.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs job on the queue and blocks until it has finished, returning its
// error. If ctx is cancelled before the job starts, the job is skipped.
func (q *Queue) Do(ctx context.Context, job Job) error {
	return <-q.submit(ctx, job)
}

// submit enqueues job without waiting. The channel receives the job's error
// exactly once.
func (q *Queue) submit(ctx context.Context, job Job) <-chan error {
	done := make(chan error, 1)
	if err := q.enqueue(ctx, task{ctx: ctx, job: job, done: done}); err != nil {
		done <- err
	}
	return done
}

// Close stops accepting jobs, drains the ones already queued and waits for
// the goroutine to exit. It is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}
