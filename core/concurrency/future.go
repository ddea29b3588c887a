// File: core/concurrency/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Future is a one-shot result slot: written once by the worker that ran the
// task, read once by the submitter.

package concurrency

import (
	"context"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/momentics/hioload-compute/api"
)

// Future is the handle returned by Submit.
type Future[R any] struct {
	done     chan struct{}
	result   api.Result[R]
	consumed atomic.Bool
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// complete stores the outcome. A second call panics on the closed channel,
// which would mean a task ran twice.
func (f *Future[R]) complete(v R, err error) {
	f.result = api.Result[R]{Value: v, Err: err}
	close(f.done)
}

// Done is closed once the task has finished. It does not consume the result.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the task completes and returns its value or failure.
// Any call after the first returns api.ErrAlreadyConsumed.
func (f *Future[R]) Get() (R, error) {
	if !f.consumed.CompareAndSwap(false, true) {
		var zero R
		return zero, api.ErrAlreadyConsumed
	}
	<-f.done
	return f.result.Unpack()
}

// GetContext is Get with a bound on the wait. If ctx ends first the result
// is left unconsumed and ctx.Err() is returned.
func (f *Future[R]) GetContext(ctx context.Context) (R, error) {
	var zero R
	if !f.consumed.CompareAndSwap(false, true) {
		return zero, api.ErrAlreadyConsumed
	}
	select {
	case <-f.done:
		return f.result.Unpack()
	case <-ctx.Done():
		f.consumed.Store(false)
		return zero, ctx.Err()
	}
}

// Wait consumes the future and keeps only the error.
func (f *Future[R]) Wait() error {
	_, err := f.Get()
	return err
}

// Waiter is satisfied by every Future regardless of its result type.
type Waiter interface {
	Wait() error
}

// WaitAll waits on every future in order and aggregates their failures.
// It returns nil only if all of them succeeded.
func WaitAll(futures ...Waiter) error {
	var result *multierror.Error
	for _, f := range futures {
		if err := f.Wait(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// WaitAllSlice is WaitAll for a homogeneous slice of futures.
func WaitAllSlice[R any](futures []*Future[R]) error {
	ws := make([]Waiter, len(futures))
	for i, f := range futures {
		ws[i] = f
	}
	return WaitAll(ws...)
}
