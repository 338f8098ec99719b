package diag

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot summarizes host pressure at remediation time as a single
// log-friendly line. Any gathering failure returns an empty string so
// diagnostics never block on host introspection.
func Snapshot(ctx context.Context) string {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return ""
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return ""
	}

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return ""
	}

	const mib = 1024 * 1024
	return fmt.Sprintf("load %.2f %.2f %.2f, mem %d/%d MiB (%.1f%%), up %s",
		avg.Load1, avg.Load5, avg.Load15,
		vm.Used/mib, vm.Total/mib, vm.UsedPercent,
		time.Duration(uptime)*time.Second)
}
