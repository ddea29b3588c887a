//go:build !linux

// control/platform_other.go
// Author: momentics <momentics@gmail.com>
//
// Metrics/debug introspection points for platforms without procfs.

package control

import (
	"runtime"
)

// OSThreadCount is unavailable without procfs and always returns -1.
func OSThreadCount() int {
	return -1
}

// RegisterPlatformProbes sets platform debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
