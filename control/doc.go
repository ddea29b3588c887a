// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging, metrics and debug introspection layer shared by
// the worker pool, the facade and the benchmark CLI.
//
// Provides:
//   - YAML configuration with environment overrides and validation
//   - logrus logger construction from configuration
//   - Prometheus collectors for worker pools
//   - Named debug probes and platform probes (CPU and OS thread counts)
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
