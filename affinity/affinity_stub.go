//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Returns error to indicate unavailability.

package affinity

import (
	"errors"
	"runtime"
)

// ErrNotSupported is returned by SetAffinity where pinning is unavailable.
var ErrNotSupported = errors.New("affinity: not supported on this platform")

// setAffinityPlatform is a stub for platforms where CPU affinity is not supported.
func setAffinityPlatform(cpuID int) error {
	return ErrNotSupported
}

func threadIDPlatform() int {
	return 0
}

func allowedCPUsPlatform() ([]int, error) {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}
