package statusapi

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/IshaanNene/scrapewatch/internal/types"
)

// SystemSampler reports host utilisation for the status response.
type SystemSampler interface {
	Sample(ctx context.Context) (types.SystemMetrics, error)
}

// HostSampler reads CPU and memory usage of the local machine.
type HostSampler struct{}

// Sample returns CPU usage since the previous call and current memory figures.
func (HostSampler) Sample(ctx context.Context) (types.SystemMetrics, error) {
	var m types.SystemMetrics

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return m, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) > 0 {
		m.CPUUsage = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return m, fmt.Errorf("virtual memory: %w", err)
	}
	m.MemoryUsage = vm.UsedPercent
	m.MemoryUsed = vm.Used
	m.MemoryTotal = vm.Total
	m.MemoryAvailable = vm.Available
	return m, nil
}
