// File: core/concurrency/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for ThreadPool construction.

package concurrency

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/momentics/hioload-compute/control"
)

// Option configures optional behavior of the pool.
type Option func(*options)

type options struct {
	name           string
	log            logrus.FieldLogger
	metrics        *control.PoolMetrics
	tracerProvider trace.TracerProvider
	cpus           []int
	lockOSThread   bool
}

func defaultOptions() options {
	return options{
		name:           "pool",
		log:            control.DiscardLogger(),
		tracerProvider: noop.NewTracerProvider(),
		lockOSThread:   true,
	}
}

// WithName sets the pool name used in logs, metric labels and span names.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger installs a logger. Lifecycle events are logged at debug level,
// task failures at warn level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records pool activity into m.
func WithMetrics(m *control.PoolMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider emits one span per executed task.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithCPUAffinity pins worker i to cpus[i % len(cpus)]. Pinning implies
// a locked OS thread. A pinning failure aborts construction.
func WithCPUAffinity(cpus []int) Option {
	return func(o *options) {
		o.cpus = append([]int(nil), cpus...)
	}
}

// WithLockOSThread controls whether each worker owns a dedicated OS thread.
// Enabled by default.
func WithLockOSThread(lock bool) Option {
	return func(o *options) { o.lockOSThread = lock }
}
