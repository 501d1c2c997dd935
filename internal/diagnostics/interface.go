package diagnostics

import (
	"context"

	"codeberg.org/mutker/appdiag/internal/event"
	"codeberg.org/mutker/appdiag/internal/gpu"
	"codeberg.org/mutker/appdiag/internal/logger"
	"codeberg.org/mutker/appdiag/internal/metrics"
	"codeberg.org/mutker/appdiag/internal/procinfo"
	"codeberg.org/mutker/appdiag/internal/settings"
	"codeberg.org/mutker/appdiag/internal/sysinfo"
)

// SystemSource answers operating system queries
type SystemSource interface {
	NetworkInterfaces(ctx context.Context) (map[string][]sysinfo.NetworkAddress, error)
	CPUs(ctx context.Context) ([]sysinfo.CPU, error)
	Type(ctx context.Context) (string, error)
	Platform(ctx context.Context) (string, error)
	Arch(ctx context.Context) (string, error)
	Hostname(ctx context.Context) (string, error)
	TempDir(ctx context.Context) (string, error)
	HomeDir(ctx context.Context) (string, error)
	TotalMemory(ctx context.Context) (uint64, error)
	FreeMemory(ctx context.Context) (uint64, error)
	LoadAverage(ctx context.Context) ([]float64, error)
	Uptime(ctx context.Context) (uint64, error)
	UserInfo(ctx context.Context) (sysinfo.UserInfo, error)
}

// ProcessSource answers static process metadata queries
type ProcessSource interface {
	Info(ctx context.Context) (procinfo.Info, error)
	IsPackaged(ctx context.Context) (bool, error)
}

// EventBus is the subscribe side of the application event bus
type EventBus interface {
	On(name string, handler event.Handler) *event.Subscription
}

// Deps are the collaborators a Reporter reads from and writes to
type Deps struct {
	Sink    logger.Sink
	System  SystemSource
	GPU     gpu.FeatureStatusReader
	Config  settings.Reader
	Metrics metrics.Collector
	Process ProcessSource
	Events  EventBus
}
