//go:build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probe integrations.

package control

import (
	"runtime"

	"github.com/prometheus/procfs"
)

// OSThreadCount returns the number of OS threads in this process, read from
// /proc/self/stat. Returns -1 if unavailable.
func OSThreadCount() int {
	self, err := procfs.Self()
	if err != nil {
		return -1
	}
	stat, err := self.Stat()
	if err != nil {
		return -1
	}
	return stat.NumThreads
}

// RegisterPlatformProbes sets Linux-specific debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.os_threads", func() any {
		return OSThreadCount()
	})
}
