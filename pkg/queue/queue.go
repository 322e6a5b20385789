// Package queue runs a batch of independent, failable tasks with a bounded
// number of them in flight at once.
//
// Tasks start in submission order (FIFO) and may complete in any order. A
// failing task never cancels its siblings and never fails the queue: every
// task settles into its own [Result], and the caller decides what a failure
// means for the batch.
//
//	q := queue.New[string](3)
//	for _, t := range tasks {
//	    q.Submit(t)
//	}
//	q.Start(ctx)
//	results, err := q.AwaitIdle(ctx) // err is only ever the wait context's error
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the concurrency ceiling used when none is configured.
const DefaultConcurrency = 3

// Task is a deferred unit of work. It receives the context passed to
// [Queue.Start].
type Task[T any] func(ctx context.Context) (T, error)

// Result is the settled outcome of one submitted task.
type Result[T any] struct {
	Index int // submission order, starting at 0
	Value T
	Err   error
}

// Failed reports whether the task settled with an error.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

type entry[T any] struct {
	index int
	task  Task[T]
}

// Queue is a FIFO task queue with a concurrency ceiling.
// The zero value is not usable, create one with [New].
type Queue[T any] struct {
	concurrency int
	sem         *semaphore.Weighted

	mu        sync.Mutex
	ctx       context.Context
	pending   []entry[T]
	results   []Result[T]
	unsettled int
	inFlight  int
	started   bool
	draining  bool
	idle      chan struct{} // closed while unsettled == 0
}

// New returns a stopped queue that runs at most concurrency tasks at once.
// Values below 1 are treated as 1.
func New[T any](concurrency int) *Queue[T] {
	if concurrency < 1 {
		concurrency = 1
	}

	idle := make(chan struct{})
	close(idle)

	return &Queue[T]{
		concurrency: concurrency,
		sem:         semaphore.NewWeighted(int64(concurrency)),
		idle:        idle,
	}
}

// Concurrency returns the ceiling of simultaneously running tasks.
func (q *Queue[T]) Concurrency() int {
	return q.concurrency
}

// Submit enqueues a task and returns its submission index. It never blocks
// and never runs the task itself; before Start the task just waits in line.
func (q *Queue[T]) Submit(task Task[T]) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.unsettled == 0 {
		q.idle = make(chan struct{})
	}

	index := len(q.results)
	q.results = append(q.results, Result[T]{Index: index})
	q.pending = append(q.pending, entry[T]{index: index, task: task})
	q.unsettled++

	q.kickLocked()
	return index
}

// Start begins draining the queue. Calls after the first are no-ops.
//
// Cancelling ctx settles every task that has not started yet with the
// context's error; running tasks observe the cancellation through their
// own ctx argument.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	q.started = true
	q.ctx = ctx
	q.kickLocked()
}

// AwaitIdle blocks until no task is pending or running and returns every
// result in submission order. Task failures are reported in the results,
// never as the returned error; the error is non-nil only when ctx is done
// before the queue went idle.
//
// A queue holding tasks that was never started does not become idle.
func (q *Queue[T]) AwaitIdle(ctx context.Context) ([]Result[T], error) {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	results := make([]Result[T], len(q.results))
	copy(results, q.results)
	return results, nil
}

// Pending returns the number of submitted tasks that have not started,
// including the one waiting for a free slot.
func (q *Queue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InFlight returns the number of tasks currently running.
func (q *Queue[T]) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// kickLocked starts the dispatcher when there is work and none is running.
// q.mu must be held.
func (q *Queue[T]) kickLocked() {
	if !q.started || q.draining || len(q.pending) == 0 {
		return
	}
	q.draining = true
	go q.dispatch()
}

// dispatch starts pending tasks in order as soon as a slot is free. The
// head task stays in q.pending until it owns a slot, so it is always
// counted either as pending or as in flight. Only one dispatcher runs at a
// time, which keeps start order equal to submission order.
func (q *Queue[T]) dispatch() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		ctx := q.ctx
		q.mu.Unlock()

		err := ctx.Err()
		if err == nil {
			err = q.sem.Acquire(ctx, 1)
		}

		// Submit only appends, so the head is still the task we waited for.
		q.mu.Lock()
		e := q.pending[0]
		q.pending[0] = entry[T]{}
		q.pending = q.pending[1:]
		if err == nil {
			q.inFlight++
		}
		q.mu.Unlock()

		if err != nil {
			var zero T
			q.settle(e.index, zero, err, false)
			continue
		}

		go q.run(ctx, e)
	}
}

func (q *Queue[T]) run(ctx context.Context, e entry[T]) {
	var (
		value T
		err   error
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: task %d panicked: %v", e.index, r)
		}

		q.settle(e.index, value, err, true)
		q.sem.Release(1)
	}()

	value, err = e.task(ctx)
}

// settle records a result and, for a task that ran, frees its in-flight
// count in the same critical section. The idle signal fires only after the
// result is stored, so AwaitIdle never observes a missing result.
func (q *Queue[T]) settle(index int, value T, err error, ran bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.results[index] = Result[T]{Index: index, Value: value, Err: err}
	if ran {
		q.inFlight--
	}
	q.unsettled--
	if q.unsettled == 0 {
		close(q.idle)
	}
}

// Run submits tasks to a new queue with the given ceiling, starts it and
// waits for every task to settle. Cancelling ctx settles the tasks that
// have not started yet; Run still returns one result per task.
func Run[T any](ctx context.Context, concurrency int, tasks []Task[T]) []Result[T] {
	q := New[T](concurrency)
	for _, task := range tasks {
		q.Submit(task)
	}
	q.Start(ctx)

	results, _ := q.AwaitIdle(context.WithoutCancel(ctx))
	return results
}

// Errors joins the errors of every failed result, or returns nil when all
// tasks succeeded.
func Errors[T any](results []Result[T]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
