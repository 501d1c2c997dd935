// Package metrics collects per-process resource usage for the running
// application and its child processes.
package metrics

import (
	"context"
	"os"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/logger"
	"github.com/shirou/gopsutil/v4/process"
)

type processCollector struct {
	pid    int32
	logger logger.Logger
}

// Compile-time guard.
var _ Collector = (*processCollector)(nil)

// NewCollector returns a Collector for the current process tree
func NewCollector(log logger.Logger) Collector {
	return NewCollectorForPID(int32(os.Getpid()), log)
}

// NewCollectorForPID returns a Collector rooted at pid
func NewCollectorForPID(pid int32, log logger.Logger) Collector {
	return &processCollector{pid: pid, logger: log}
}

// Collect returns the root process first, followed by its live children.
func (c *processCollector) Collect(ctx context.Context) ([]ProcessMetric, error) {
	errFactory := errors.New()

	root, err := process.NewProcessWithContext(ctx, c.pid)
	if err != nil {
		return nil, errFactory.Wrap(ErrProcessNotFound, err)
	}

	rootMetric, err := sample(ctx, root, TypeMain)
	if err != nil {
		return nil, errFactory.Wrap(ErrMetricsCollection, err)
	}
	result := []ProcessMetric{rootMetric}

	children, err := root.ChildrenWithContext(ctx)
	if err != nil && !errors.Is(err, process.ErrorNoChildren) {
		return nil, errFactory.Wrap(ErrMetricsCollection, err)
	}

	for _, child := range children {
		m, err := sample(ctx, child, TypeChild)
		if err != nil {
			// Children may exit between listing and sampling
			c.logger.Debug().Err(err).Int32("pid", child.Pid).Msg("Skipping child process")
			continue
		}
		result = append(result, m)
	}

	return result, nil
}

func sample(ctx context.Context, p *process.Process, kind string) (ProcessMetric, error) {
	percent, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		return ProcessMetric{}, err
	}

	times, err := p.TimesWithContext(ctx)
	if err != nil {
		return ProcessMetric{}, err
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return ProcessMetric{}, err
	}

	return ProcessMetric{
		PID:  p.Pid,
		Type: kind,
		Name: name,
		CPU: CPUUsage{
			PercentCPUUsage:      percent,
			CumulativeCPUSeconds: times.User + times.System,
		},
	}, nil
}
