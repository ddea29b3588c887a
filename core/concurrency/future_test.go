package concurrency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-compute/api"
)

func TestFuture_GetBlocksUntilComplete(t *testing.T) {
	f := newFuture[string]()
	go func() {
		time.Sleep(20 * time.Millisecond)
		f.complete("ok", nil)
	}()
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestFuture_SecondGetFailsLoudly(t *testing.T) {
	f := newFuture[int]()
	f.complete(7, nil)

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = f.Get()
	assert.ErrorIs(t, err, api.ErrAlreadyConsumed)
	assert.Zero(t, v)
}

func TestFuture_GetContextCancelLeavesResult(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.GetContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	f.complete(3, nil)
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestFuture_GetContextTimeout(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.GetContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_DoneDoesNotConsume(t *testing.T) {
	f := newFuture[int]()
	select {
	case <-f.Done():
		t.Fatal("done before completion")
	default:
	}
	f.complete(1, nil)
	<-f.Done()
	<-f.Done()
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFuture_CarriesFailure(t *testing.T) {
	cause := errors.New("boom")
	f := newFuture[int]()
	f.complete(0, &api.TaskError{Cause: cause})
	_, err := f.Get()
	assert.ErrorIs(t, err, api.ErrTaskFailed)
	assert.ErrorIs(t, err, cause)
}

func TestWaitAll_AggregatesFailures(t *testing.T) {
	ok := newFuture[int]()
	ok.complete(1, nil)
	bad1 := newFuture[string]()
	bad1.complete("", &api.TaskError{Cause: errors.New("first")})
	bad2 := newFuture[struct{}]()
	bad2.complete(struct{}{}, &api.TaskError{Cause: errors.New("second")})

	err := WaitAll(ok, bad1, bad2)
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, err, api.ErrTaskFailed)

	// futures are consumed by WaitAll
	_, err = ok.Get()
	assert.ErrorIs(t, err, api.ErrAlreadyConsumed)
}

func TestWaitAllSlice_NilOnSuccess(t *testing.T) {
	fs := make([]*Future[int], 4)
	for i := range fs {
		fs[i] = newFuture[int]()
		fs[i].complete(i, nil)
	}
	assert.NoError(t, WaitAllSlice(fs))
}
