// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size worker pool for hioload-compute. A ThreadPool owns a set of
// worker goroutines, each locked to its own OS thread and optionally pinned
// to a CPU, consuming one shared FIFO task queue. Submitting work returns a
// single-use Future that carries either the produced value or the captured
// failure of that task alone.
//
// Lifecycle:
//
//	pool, err := concurrency.NewThreadPool(4)
//	f, err := concurrency.Submit(pool, func() (int, error) { return 42, nil })
//	v, err := f.Get()
//	pool.Shutdown() // drains queued work, joins workers
//
// Shutdown never discards queued work: tasks accepted before shutdown began
// always run. Submissions after that point fail with api.ErrRejected.
package concurrency
