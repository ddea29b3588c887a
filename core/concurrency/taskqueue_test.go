package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingTask(out *[]int, mu *sync.Mutex, v int) task {
	return func(int) {
		mu.Lock()
		*out = append(*out, v)
		mu.Unlock()
	}
}

func TestTaskQueue_FIFO(t *testing.T) {
	q := newTaskQueue()
	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		require.True(t, q.push(recordingTask(&got, &mu, i)))
	}
	assert.Equal(t, 100, q.len())
	for i := 0; i < 100; i++ {
		tk, ok := q.popBlocking()
		require.True(t, ok)
		tk(0)
	}
	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestTaskQueue_PopBlocksUntilPush(t *testing.T) {
	q := newTaskQueue()
	popped := make(chan task)
	go func() {
		tk, ok := q.popBlocking()
		if ok {
			popped <- tk
		}
		close(popped)
	}()

	select {
	case <-popped:
		t.Fatal("popBlocking returned on an empty running queue")
	case <-time.After(50 * time.Millisecond):
	}

	var ran atomic.Bool
	require.True(t, q.push(func(int) { ran.Store(true) }))
	select {
	case tk := <-popped:
		require.NotNil(t, tk)
		tk(0)
		assert.True(t, ran.Load())
	case <-time.After(time.Second):
		t.Fatal("popBlocking did not wake on push")
	}
}

func TestTaskQueue_CloseDrainsBeforeReportingEmpty(t *testing.T) {
	q := newTaskQueue()
	for i := 0; i < 3; i++ {
		require.True(t, q.push(func(int) {}))
	}
	assert.True(t, q.close())
	assert.False(t, q.close(), "second close must not report the transition")
	assert.Equal(t, ShuttingDown, q.currentState())

	for i := 0; i < 3; i++ {
		_, ok := q.popBlocking()
		require.True(t, ok, "queued task %d dropped after close", i)
	}
	_, ok := q.popBlocking()
	assert.False(t, ok)
}

func TestTaskQueue_PushAfterCloseRefused(t *testing.T) {
	q := newTaskQueue()
	q.close()
	assert.False(t, q.push(func(int) {}))
	assert.Zero(t, q.len())
}

func TestTaskQueue_CloseWakesAllWaiters(t *testing.T) {
	q := newTaskQueue()
	const waiters = 8
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			_, ok := q.popBlocking()
			assert.False(t, ok)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	q.close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiters not released by close")
	}
}

func TestTaskQueue_MPMCDeliversEachTaskOnce(t *testing.T) {
	q := newTaskQueue()
	const (
		producers   = 8
		perProducer = 2000
		consumers   = 8
	)
	hits := make([]atomic.Int32, producers*perProducer)

	var cwg sync.WaitGroup
	cwg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer cwg.Done()
			for {
				tk, ok := q.popBlocking()
				if !ok {
					return
				}
				tk(0)
			}
		}()
	}

	var pwg sync.WaitGroup
	pwg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer pwg.Done()
			for i := 0; i < perProducer; i++ {
				idx := p*perProducer + i
				q.push(func(int) { hits[idx].Add(1) })
			}
		}(p)
	}
	pwg.Wait()
	q.close()
	cwg.Wait()

	for i := range hits {
		require.Equalf(t, int32(1), hits[i].Load(), "task %d", i)
	}
}
