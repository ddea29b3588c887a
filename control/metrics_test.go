package control

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolMetrics_LabelledPerPool(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPoolMetrics(reg)
	m.TasksSubmitted.WithLabelValues("a").Add(3)
	m.TasksSubmitted.WithLabelValues("b").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.TasksSubmitted.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksSubmitted.WithLabelValues("b")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.TasksSubmitted))
}

func TestPoolMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPoolMetrics(reg)
	assert.Panics(t, func() { NewPoolMetrics(reg) })
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPoolMetrics(reg)
	m.QueueDepth.WithLabelValues("p").Set(4)

	var buf bytes.Buffer
	require.NoError(t, WriteText(reg, &buf))
	assert.Contains(t, buf.String(), "# TYPE hioload_pool_queue_depth gauge")
	assert.Contains(t, buf.String(), `hioload_pool_queue_depth{pool="p"} 4`)
}
