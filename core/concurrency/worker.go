// File: core/concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker loop: wait for work or shutdown, dequeue, execute outside the lock, repeat.

package concurrency

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-compute/affinity"
)

// worker runs tasks from the shared queue until the queue is shut down and drained.
type worker struct {
	id   int
	cpu  int // -1 when unpinned
	pool *poolCore
}

// run is the body of the worker goroutine. It reports start-up status on
// started exactly once before entering the loop; replacement workers pass
// a nil channel.
//
// When the goroutine holds its OS thread it never unlocks it: a goroutine
// that exits while locked takes its thread down with it, so a stopped pool
// leaves no idle threads behind.
func (w *worker) run(started chan<- error) {
	defer w.pool.wg.Done()

	if w.pool.opts.lockOSThread || w.cpu >= 0 {
		runtime.LockOSThread()
	}
	if w.cpu >= 0 {
		if err := affinity.SetAffinity(w.cpu); err != nil {
			err = fmt.Errorf("worker %d: %w", w.id, err)
			if started != nil {
				started <- err
			} else {
				w.pool.log.WithError(err).Error("replacement worker failed to start")
			}
			return
		}
	}

	log := w.pool.log.WithFields(logrus.Fields{
		"worker": w.id,
		"tid":    affinity.ThreadID(),
	})
	if w.cpu >= 0 {
		log = log.WithField("cpu", w.cpu)
	}
	if started != nil {
		started <- nil
	}
	log.Debug("worker started")

	drained := false
	defer func() {
		if drained {
			return
		}
		// A task called runtime.Goexit. Its future is already fulfilled;
		// start a replacement before this goroutine's Done so the pool
		// keeps its worker count and Shutdown still waits for the drain.
		log.Warn("worker goroutine exited inside a task, replacing it")
		w.pool.wg.Add(1)
		go w.run(nil)
	}()

	for {
		t, ok := w.pool.queue.popBlocking()
		if !ok {
			drained = true
			log.Debug("worker exiting")
			return
		}
		t(w.id)
	}
}
