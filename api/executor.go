// Package api
// Author: momentics
//
// Executor contract for parallel task dispatch.

package api

// Executor abstracts a fixed set of workers consuming a shared queue.
type Executor interface {
	// Execute schedules task for execution. Returns ErrRejected after shutdown.
	Execute(task func()) error

	// NumWorkers returns the fixed number of worker routines.
	NumWorkers() int

	// Shutdown drains queued work and joins all workers. Idempotent.
	Shutdown()
}
