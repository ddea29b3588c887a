// File: kernels/timing.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package kernels

import (
	"time"
)

// Measure runs fn iterations times and returns the mean wall time per run.
// The first error aborts the measurement.
func Measure(iterations int, fn func() error) (time.Duration, error) {
	if iterations < 1 {
		iterations = 1
	}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := fn(); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(iterations), nil
}

// Speedup is serial/parallel, or 0 when parallel is zero.
func Speedup(serial, parallel time.Duration) float64 {
	if parallel <= 0 {
		return 0
	}
	return serial.Seconds() / parallel.Seconds()
}
