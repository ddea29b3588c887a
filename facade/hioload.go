// File: facade/hioload.go
// Unified facade layer for hioload-compute.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the Compute struct, which aggregates the worker pool and
// its ambient services behind a single facade. It builds the logger, the
// Prometheus registry and collectors, debug probes and the ThreadPool from
// one control.Config, and tears them down together.

package facade

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/momentics/hioload-compute/api"
	"github.com/momentics/hioload-compute/control"
	"github.com/momentics/hioload-compute/core/concurrency"
)

// Compute is the main facade type.
type Compute struct {
	config   *control.Config
	log      *logrus.Logger
	registry *prometheus.Registry // nil when metrics are disabled
	probes   *control.DebugProbes
	pool     *concurrency.ThreadPool
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Compute)(nil)

// Option tweaks facade construction.
type Option func(*settings)

type settings struct {
	logOut io.Writer
	tp     trace.TracerProvider
}

// WithLogOutput redirects facade logs; the default is stderr.
func WithLogOutput(w io.Writer) Option {
	return func(s *settings) { s.logOut = w }
}

// WithTracing forwards a tracer provider to the pool.
func WithTracing(tp trace.TracerProvider) Option {
	return func(s *settings) { s.tp = tp }
}

// New validates cfg and constructs every subsystem. A nil cfg means
// control.DefaultConfig().
func New(cfg *control.Config, opts ...Option) (*Compute, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	s := settings{logOut: os.Stderr}
	for _, o := range opts {
		o(&s)
	}

	logger, err := control.NewLogger(cfg.Log, s.logOut)
	if err != nil {
		return nil, err
	}
	c := &Compute{
		config: cfg,
		log:    logger,
		probes: control.NewDebugProbes(),
	}

	poolOpts := []concurrency.Option{
		concurrency.WithName(cfg.Name),
		concurrency.WithLogger(logger),
		concurrency.WithLockOSThread(cfg.LockOSThread),
	}
	if len(cfg.CPUAffinity) > 0 {
		poolOpts = append(poolOpts, concurrency.WithCPUAffinity(cfg.CPUAffinity))
	}
	if cfg.Metrics.Enabled {
		c.registry = prometheus.NewRegistry()
		poolOpts = append(poolOpts, concurrency.WithMetrics(control.NewPoolMetrics(c.registry)))
	}
	if s.tp != nil {
		poolOpts = append(poolOpts, concurrency.WithTracerProvider(s.tp))
	}

	c.pool, err = concurrency.NewThreadPool(cfg.Workers, poolOpts...)
	if err != nil {
		logger.WithError(err).Error("pool construction failed")
		return nil, err
	}

	control.RegisterPlatformProbes(c.probes)
	c.probes.RegisterProbe("pool.id", func() any { return c.pool.ID() })
	c.probes.RegisterProbe("pool.state", func() any { return c.pool.State().String() })
	c.probes.RegisterProbe("pool.workers", func() any { return c.pool.NumWorkers() })
	c.probes.RegisterProbe("pool.stats", func() any { return c.pool.Stats() })

	logger.WithFields(logrus.Fields{
		"pool":    cfg.Name,
		"workers": cfg.Workers,
		"metrics": cfg.Metrics.Enabled,
	}).Info("compute facade ready")
	return c, nil
}

// Pool returns the worker pool.
func (c *Compute) Pool() *concurrency.ThreadPool {
	return c.pool
}

// Logger returns the facade logger.
func (c *Compute) Logger() *logrus.Logger {
	return c.log
}

// Config returns the configuration the facade was built from.
func (c *Compute) Config() *control.Config {
	return c.config
}

// Probes returns the debug probe registry.
func (c *Compute) Probes() *control.DebugProbes {
	return c.probes
}

// Gatherer returns the metrics registry, or nil when metrics are disabled.
func (c *Compute) Gatherer() prometheus.Gatherer {
	if c.registry == nil {
		return nil
	}
	return c.registry
}

// WriteMetrics dumps collected metrics in Prometheus text format.
func (c *Compute) WriteMetrics(w io.Writer) error {
	if c.registry == nil {
		return fmt.Errorf("metrics disabled")
	}
	return control.WriteText(c.registry, w)
}

// Shutdown implements api.GracefulShutdown: drains and joins the pool.
func (c *Compute) Shutdown() {
	c.pool.Shutdown()
	c.log.WithField("pool", c.config.Name).Debug("compute facade stopped")
}
