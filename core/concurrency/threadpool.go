// File: core/concurrency/threadpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ThreadPool owns a fixed set of worker threads and the queue they share.
// Work is submitted as closures and answered through Futures; shutdown
// rejects new work, drains what is queued and joins every worker.

package concurrency

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/momentics/hioload-compute/api"
)

const tracerName = "github.com/momentics/hioload-compute/core/concurrency"

// Stats is a point-in-time view of pool counters.
type Stats struct {
	Workers   int
	Pending   int
	Busy      int
	Submitted int64
	Completed int64
	Failed    int64
	Rejected  int64
}

// ThreadPool is the handle given to callers. Workers only reference the
// inner poolCore, so once the handle is unreachable a cleanup can shut the
// pool down without leaking threads.
type ThreadPool struct {
	core *poolCore
}

var (
	_ api.Executor         = (*ThreadPool)(nil)
	_ api.GracefulShutdown = (*ThreadPool)(nil)
)

type poolCore struct {
	id      string
	opts    options
	workers int
	queue   *taskQueue
	wg      sync.WaitGroup
	log     logrus.FieldLogger
	tracer  trace.Tracer
	stopped sync.Once

	busy      atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
}

// NewThreadPool starts workers goroutines, each on its own OS thread unless
// WithLockOSThread(false) is given. It returns an error wrapping
// api.ErrConstruction if workers < 1 or any worker fails to start; in the
// latter case the workers that did start are shut down before returning.
func NewThreadPool(workers int, opts ...Option) (*ThreadPool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: %w: %d", api.ErrConstruction, api.ErrInvalidWorkerCount, workers)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	c := &poolCore{
		id:      id,
		opts:    o,
		workers: workers,
		queue:   newTaskQueue(),
		log:     o.log.WithFields(logrus.Fields{"pool": o.name, "pool_id": id}),
		tracer:  o.tracerProvider.Tracer(tracerName),
	}

	started := make(chan error, workers)
	c.wg.Add(workers)
	for i := 0; i < workers; i++ {
		w := &worker{id: i, cpu: -1, pool: c}
		if len(o.cpus) > 0 {
			w.cpu = o.cpus[i%len(o.cpus)]
		}
		go w.run(started)
	}

	var startErr error
	for i := 0; i < workers; i++ {
		if err := <-started; err != nil {
			startErr = multierror.Append(startErr, err)
		}
	}
	if startErr != nil {
		c.log.WithError(startErr).Error("worker start failed, tearing pool down")
		c.drain()
		return nil, fmt.Errorf("%w: %w", api.ErrConstruction, startErr)
	}

	if m := o.metrics; m != nil {
		m.Workers.WithLabelValues(o.name).Add(float64(workers))
	}
	c.log.WithField("workers", workers).Debug("pool started")

	p := &ThreadPool{core: c}
	runtime.AddCleanup(p, func(c *poolCore) {
		// Cleanups run one at a time; do not hold the runtime's goroutine
		// while queued work drains.
		go c.shutdown()
	}, c)
	return p, nil
}

// Submit schedules work on p and returns the Future carrying its result.
// A returned error or panic inside work is delivered as *api.TaskError
// through the Future only. After shutdown has begun Submit returns
// api.ErrRejected and work never runs.
func Submit[R any](p *ThreadPool, work func() (R, error)) (*Future[R], error) {
	if work == nil {
		return nil, api.ErrNilTask
	}
	c := p.core
	f := newFuture[R]()
	err := c.enqueue(func(workerID int) {
		var res api.Result[R]
		// Deferred so the future is fulfilled even if work calls runtime.Goexit.
		defer func() { f.complete(res.Value, res.Err) }()
		c.observe(workerID, func() error {
			invoke(work, &res)
			return res.Err
		})
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SubmitFunc is Submit for work that produces no value.
func (p *ThreadPool) SubmitFunc(work func() error) (*Future[struct{}], error) {
	if work == nil {
		return nil, api.ErrNilTask
	}
	return Submit(p, func() (struct{}, error) {
		return struct{}{}, work()
	})
}

// Execute runs task without a Future. Panics are recovered and logged.
func (p *ThreadPool) Execute(task func()) error {
	if task == nil {
		return api.ErrNilTask
	}
	c := p.core
	return c.enqueue(func(workerID int) {
		c.observe(workerID, func() error {
			var res api.Result[struct{}]
			invoke(func() (struct{}, error) {
				task()
				return struct{}{}, nil
			}, &res)
			return res.Err
		})
	})
}

// Shutdown stops accepting work, lets workers drain the queue and blocks
// until all of them have exited. Safe to call repeatedly and concurrently.
// Calling it from inside a task deadlocks.
func (p *ThreadPool) Shutdown() {
	p.core.shutdown()
	runtime.KeepAlive(p)
}

// Close is Shutdown in io.Closer form. It always returns nil.
func (p *ThreadPool) Close() error {
	p.Shutdown()
	return nil
}

// NumWorkers returns the fixed worker count.
func (p *ThreadPool) NumWorkers() int {
	return p.core.workers
}

// Pending returns the number of queued, not yet dequeued, tasks.
func (p *ThreadPool) Pending() int {
	return p.core.queue.len()
}

// State reports Running or ShuttingDown.
func (p *ThreadPool) State() State {
	return p.core.queue.currentState()
}

// ID returns the unique pool identifier attached to logs and spans.
func (p *ThreadPool) ID() string {
	return p.core.id
}

// Name returns the configured pool name.
func (p *ThreadPool) Name() string {
	return p.core.opts.name
}

// Stats returns current counters.
func (p *ThreadPool) Stats() Stats {
	c := p.core
	return Stats{
		Workers:   c.workers,
		Pending:   c.queue.len(),
		Busy:      int(c.busy.Load()),
		Submitted: c.submitted.Load(),
		Completed: c.completed.Load(),
		Failed:    c.failed.Load(),
		Rejected:  c.rejected.Load(),
	}
}

func (c *poolCore) enqueue(t task) error {
	m := c.opts.metrics
	if c.queue.currentState() == ShuttingDown {
		return c.reject()
	}
	// The depth gauge goes up before the task is visible to workers, so
	// the matching Dec in observe can never run first.
	if m != nil {
		m.QueueDepth.WithLabelValues(c.opts.name).Inc()
	}
	if !c.queue.push(t) {
		if m != nil {
			m.QueueDepth.WithLabelValues(c.opts.name).Dec()
		}
		return c.reject()
	}
	c.submitted.Add(1)
	if m != nil {
		m.TasksSubmitted.WithLabelValues(c.opts.name).Inc()
	}
	return nil
}

func (c *poolCore) reject() error {
	c.rejected.Add(1)
	if m := c.opts.metrics; m != nil {
		m.TasksRejected.WithLabelValues(c.opts.name).Inc()
	}
	return api.ErrRejected
}

// observe wraps one task execution with counters, metrics, a span and
// failure logging. run must not panic; invoke guarantees that. If run ends
// the goroutine with runtime.Goexit the bookkeeping still happens and the
// task counts as failed.
func (c *poolCore) observe(workerID int, run func() error) {
	name := c.opts.name
	m := c.opts.metrics
	if m != nil {
		m.QueueDepth.WithLabelValues(name).Dec()
		m.BusyWorkers.WithLabelValues(name).Inc()
	}
	c.busy.Add(1)

	_, span := c.tracer.Start(context.Background(), name+".task",
		trace.WithAttributes(
			attribute.String("pool.id", c.id),
			attribute.Int("pool.worker", workerID),
		))
	start := time.Now()
	var err error = &api.TaskError{Cause: api.ErrTaskExited}
	defer func() {
		elapsed := time.Since(start)
		if err != nil {
			c.failed.Add(1)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.log.WithFields(logrus.Fields{"worker": workerID}).WithError(err).Warn("task failed")
		} else {
			c.completed.Add(1)
		}
		span.End()

		c.busy.Add(-1)
		if m != nil {
			m.BusyWorkers.WithLabelValues(name).Dec()
			m.TaskDuration.WithLabelValues(name).Observe(elapsed.Seconds())
			if err != nil {
				m.TasksFailed.WithLabelValues(name).Inc()
			} else {
				m.TasksCompleted.WithLabelValues(name).Inc()
			}
		}
	}()
	err = run()
}

func (c *poolCore) shutdown() {
	c.drain()
	c.stopped.Do(func() {
		if m := c.opts.metrics; m != nil {
			m.Workers.WithLabelValues(c.opts.name).Sub(float64(c.workers))
		}
		c.log.Debug("pool stopped")
	})
}

// drain moves the queue to ShuttingDown and joins every worker once the
// queue is empty.
func (c *poolCore) drain() {
	if c.queue.close() {
		c.log.WithField("pending", c.queue.len()).Debug("shutdown initiated")
	}
	c.wg.Wait()
}

// invoke runs work and stores its outcome in out. A returned error, a panic
// or a runtime.Goexit inside work is recorded as *api.TaskError. Goexit
// cannot be stopped, so in that case the caller only sees out through its
// own deferred calls.
func invoke[R any](work func() (R, error), out *api.Result[R]) {
	normalReturn := false
	defer func() {
		if normalReturn {
			return
		}
		if r := recover(); r != nil {
			*out = api.Result[R]{Err: panicError(r)}
			return
		}
		*out = api.Result[R]{Err: &api.TaskError{Cause: api.ErrTaskExited}}
	}()
	v, err := work()
	if err != nil {
		err = &api.TaskError{Cause: err}
	}
	*out = api.Result[R]{Value: v, Err: err}
	normalReturn = true
}

// panicError captures the recovered value together with the panicking stack.
// Deferred calls run on top of the panicking frames, so the stack taken here
// still shows where the task blew up.
func panicError(r any) *api.TaskError {
	wrapped := goerrors.Wrap(r, 3)
	te := &api.TaskError{
		Panic: r,
		Stack: string(wrapped.Stack()),
	}
	if cause, ok := r.(error); ok {
		te.Cause = cause
	}
	return te
}
