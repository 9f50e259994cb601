package common

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceSnapshot captures process and system resource usage at a point in time.
type ResourceSnapshot struct {
	ProcessRSSMB     float64
	SystemUsedPct    float64
	Goroutines       int
	CPUPercent       float64
	SnapshotComplete bool
}

// CaptureResourceSnapshot samples current process memory, CPU and system memory.
// Sampling failures degrade to a partial snapshot rather than an error; callers
// use this for logging only.
func CaptureResourceSnapshot() ResourceSnapshot {
	snapshot := ResourceSnapshot{
		Goroutines: runtime.NumGoroutine(),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return snapshot
	}

	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
		snapshot.ProcessRSSMB = float64(memInfo.RSS) / (1024 * 1024)
	}
	if cpuPct, err := proc.CPUPercent(); err == nil {
		snapshot.CPUPercent = cpuPct
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		snapshot.SystemUsedPct = vm.UsedPercent
	}

	snapshot.SnapshotComplete = true
	return snapshot
}
