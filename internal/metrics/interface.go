package metrics

import "context"

// Collector gathers resource usage for the application's processes
type Collector interface {
	Collect(ctx context.Context) ([]ProcessMetric, error)
}

// Process types
const (
	TypeMain  = "main"
	TypeChild = "child"
)

// ProcessMetric is a point-in-time resource usage record for one process
type ProcessMetric struct {
	PID  int32
	Type string
	Name string
	CPU  CPUUsage
}

// CPUUsage describes how much CPU a process has used
type CPUUsage struct {
	PercentCPUUsage      float64 `json:"percentCPUUsage"`
	CumulativeCPUSeconds float64 `json:"cumulativeCPUSeconds"`
}
