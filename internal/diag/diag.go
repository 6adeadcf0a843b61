// Package diag samples process health for the status resource.
package diag

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is one reading of process health. Metrics that could not be
// collected stay at zero rather than failing the whole reading.
type Snapshot struct {
	PID           int     `json:"pid"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	RSSBytes      uint64  `json:"rssBytes"`
	CPUPercent    float64 `json:"cpuPercent"`
	Goroutines    int     `json:"goroutines"`
}

// Collector samples the current process.
type Collector struct {
	proc    *process.Process
	started time.Time
}

// NewCollector prepares a collector for the current process. The
// process handle is optional: on platforms where it cannot be opened,
// snapshots carry runtime numbers only.
func NewCollector() *Collector {
	c := &Collector{started: time.Now()}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		c.proc = p
	}
	return c
}

// Collect returns a snapshot. It never fails outright.
func (c *Collector) Collect() Snapshot {
	s := Snapshot{
		PID:           os.Getpid(),
		UptimeSeconds: time.Since(c.started).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
	}
	if c.proc == nil {
		return s
	}
	if mi, err := c.proc.MemoryInfo(); err == nil && mi != nil {
		s.RSSBytes = mi.RSS
	}
	if pct, err := c.proc.CPUPercent(); err == nil {
		s.CPUPercent = pct
	}
	return s
}
