// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-compute.

package api

import (
	"errors"
	"fmt"
)

// Pool-level and task-level errors used across the library.
var (
	// ErrConstruction indicates a pool could not start all of its workers.
	// No partially started pool is ever returned alongside it.
	ErrConstruction = errors.New("thread pool construction failed")

	// ErrRejected indicates a submission arrived after shutdown began.
	// The rejected work is never run.
	ErrRejected = errors.New("thread pool is shutting down")

	// ErrTaskFailed is matched by every *TaskError via errors.Is.
	ErrTaskFailed = errors.New("task failed")

	// ErrAlreadyConsumed indicates a second read of a single-use future.
	ErrAlreadyConsumed = errors.New("future already consumed")

	// ErrInvalidWorkerCount indicates a worker or block count below one.
	ErrInvalidWorkerCount = errors.New("invalid worker count")

	// ErrInvalidExtent indicates a negative index range extent.
	ErrInvalidExtent = errors.New("invalid extent")

	// ErrNilTask indicates a nil work function was submitted.
	ErrNilTask = errors.New("nil task")

	// ErrTaskExited is the cause recorded when a task ends its goroutine
	// with runtime.Goexit instead of returning.
	ErrTaskExited = errors.New("task called runtime.Goexit")
)

// TaskError carries the failure of one submitted task to its future.
// Exactly one of Cause or Panic is the origin: a task either returned an
// error or panicked. Stack is only populated for panics.
type TaskError struct {
	Cause error
	Panic any
	Stack string
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("%s: panic: %v", ErrTaskFailed, e.Panic)
	}
	return fmt.Sprintf("%s: %v", ErrTaskFailed, e.Cause)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Is reports ErrTaskFailed as a match so callers can test the kind without
// knowing the cause.
func (e *TaskError) Is(target error) bool {
	return target == ErrTaskFailed
}

// IsTaskFailure reports whether err originated from a failing task.
func IsTaskFailure(err error) bool {
	var te *TaskError
	return errors.As(err, &te)
}
