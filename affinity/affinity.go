// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.
//
// All functions act on the calling OS thread. Callers must hold the thread with
// runtime.LockOSThread for the pinning to stay attached to their goroutine.

package affinity

import "fmt"

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: invalid cpu %d", cpuID)
	}
	return setAffinityPlatform(cpuID)
}

// ThreadID returns the OS identifier of the calling thread, or 0 when the
// platform offers none.
func ThreadID() int {
	return threadIDPlatform()
}

// AllowedCPUs lists the logical CPUs the current process may run on.
func AllowedCPUs() ([]int, error) {
	return allowedCPUsPlatform()
}
