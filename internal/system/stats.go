package system

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of the machine the render runs on.
type HostStats struct {
	CPUModel      string
	LogicalCores  int
	TotalMemoryMB uint64
	UsedMemoryPct float64
	Goroutines    int
}

// CollectHostStats gathers CPU and memory figures. Fields that cannot be
// read are left zero.
func CollectHostStats() HostStats {
	s := HostStats{Goroutines: runtime.NumGoroutine()}

	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCores = n
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		s.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemoryMB = vm.Total / (1024 * 1024)
		s.UsedMemoryPct = vm.UsedPercent
	}
	return s
}

func (s HostStats) String() string {
	model := s.CPUModel
	if model == "" {
		model = "unknown cpu"
	}
	return fmt.Sprintf("%s | %d cores | RAM %d MB (%.1f%% used) | goroutines %d",
		model, s.LogicalCores, s.TotalMemoryMB, s.UsedMemoryPct, s.Goroutines)
}
