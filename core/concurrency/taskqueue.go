// File: core/concurrency/taskqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex-guarded FIFO of pending tasks shared by all pool workers.
// A single condition variable is signalled on insertion and broadcast on shutdown.

package concurrency

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// State is the lifecycle phase of a pool. Running -> ShuttingDown is one-way.
type State int32

const (
	Running State = iota
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// task is a type-erased unit of work already bound to its future.
// The argument is the id of the executing worker.
type task func(workerID int)

// taskQueue holds tasks until exactly one worker removes each of them.
// items is only touched under mu. state is written under mu and may be
// read without it for the uncontended fast path.
type taskQueue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    *queue.Queue
	state    atomic.Int32
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{items: queue.New()}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// push appends t and wakes one waiting worker. It refuses the task once
// shutdown has begun so nothing is accepted after the drain decision.
func (q *taskQueue) push(t task) bool {
	q.mu.Lock()
	if State(q.state.Load()) == ShuttingDown {
		q.mu.Unlock()
		return false
	}
	q.items.Add(t)
	q.mu.Unlock()
	q.nonEmpty.Signal()
	return true
}

// popBlocking waits until a task is available or the queue is shutting down.
// It reports false only when shutting down with nothing left to drain.
func (q *taskQueue) popBlocking() (task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 && State(q.state.Load()) == Running {
		q.nonEmpty.Wait()
	}
	if q.items.Length() == 0 {
		return nil, false
	}
	return q.items.Remove().(task), true
}

// close moves the queue to ShuttingDown and wakes every waiter.
// It returns true only for the call that performed the transition.
func (q *taskQueue) close() bool {
	q.mu.Lock()
	first := q.state.CompareAndSwap(int32(Running), int32(ShuttingDown))
	q.mu.Unlock()
	q.nonEmpty.Broadcast()
	return first
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

func (q *taskQueue) currentState() State {
	return State(q.state.Load())
}
