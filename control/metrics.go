// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for worker pools.
// Every series carries a "pool" label so several pools can share one registry.

package control

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// PoolMetrics holds all pool collectors.
type PoolMetrics struct {
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TasksRejected  *prometheus.CounterVec
	QueueDepth     *prometheus.GaugeVec
	BusyWorkers    *prometheus.GaugeVec
	Workers        *prometheus.GaugeVec
	TaskDuration   *prometheus.HistogramVec
}

// NewPoolMetrics registers pool collectors with registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewPoolMetrics(registerer prometheus.Registerer) *PoolMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	f := promauto.With(registerer)
	labels := []string{"pool"}
	return &PoolMetrics{
		TasksSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hioload_pool_tasks_submitted_total",
			Help: "Tasks accepted into the pool queue",
		}, labels),
		TasksCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hioload_pool_tasks_completed_total",
			Help: "Tasks that finished without error",
		}, labels),
		TasksFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hioload_pool_tasks_failed_total",
			Help: "Tasks that returned an error or panicked",
		}, labels),
		TasksRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hioload_pool_tasks_rejected_total",
			Help: "Submissions refused because the pool was shutting down",
		}, labels),
		QueueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hioload_pool_queue_depth",
			Help: "Tasks waiting in the queue",
		}, labels),
		BusyWorkers: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hioload_pool_busy_workers",
			Help: "Workers currently executing a task",
		}, labels),
		Workers: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hioload_pool_workers",
			Help: "Live worker threads",
		}, labels),
		TaskDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hioload_pool_task_duration_seconds",
			Help:    "Task execution time",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8), // 1us to 10s
		}, labels),
	}
}

// WriteText dumps every metric family of g in Prometheus text format.
func WriteText(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
