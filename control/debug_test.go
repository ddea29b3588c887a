package control

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("b", func() any { return 2 })
	dp.RegisterProbe("a", func() any { return "one" })
	dp.RegisterProbe("a", func() any { return 1 })

	assert.Equal(t, []string{"a", "b"}, dp.Names())
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, dp.DumpState())
}

func TestDebugProbes_ProbeMayRegister(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("self", func() any {
		dp.RegisterProbe("late", func() any { return true })
		return len(dp.Names())
	})
	assert.NotPanics(t, func() { dp.DumpState() })
	assert.Contains(t, dp.Names(), "late")
}

func TestRegisterPlatformProbes(t *testing.T) {
	dp := NewDebugProbes()
	RegisterPlatformProbes(dp)
	state := dp.DumpState()
	assert.Equal(t, runtime.NumCPU(), state["platform.cpus"])
	if runtime.GOOS == "linux" {
		assert.Positive(t, state["platform.os_threads"])
		assert.Positive(t, OSThreadCount())
	}
}
