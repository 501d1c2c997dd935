package diagnostics

import (
	"context"

	"codeberg.org/mutker/appdiag/internal/errors"
)

// GPUStats logs the GPU feature status table as a single line
func (r *Reporter) GPUStats(ctx context.Context) error {
	errFactory := errors.New()

	r.info(gpuBanner)

	status, err := r.deps.GPU.FeatureStatus(ctx)
	if err != nil {
		return errFactory.Wrap(ErrGPUStats, err)
	}

	line, err := formatFact("GPU Feature Status", status)
	if err != nil {
		return errFactory.Wrap(ErrGPUStats, err)
	}
	r.info(line)

	return nil
}
