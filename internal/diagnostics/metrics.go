package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"

	"codeberg.org/mutker/appdiag/internal/errors"
)

// AppMetrics logs one line per application process, in the order the
// collector returns them
func (r *Reporter) AppMetrics(ctx context.Context) error {
	errFactory := errors.New()

	r.info(metricsBanner)

	processes, err := r.deps.Metrics.Collect(ctx)
	if err != nil {
		return errFactory.Wrap(ErrAppMetrics, err)
	}

	for _, p := range processes {
		cpu, err := json.Marshal(p.CPU)
		if err != nil {
			return errFactory.Wrap(ErrSerializeFact, err)
		}
		r.info(fmt.Sprintf("PID -> %d, Type -> %s, CPU Usage -> %s", p.PID, p.Type, cpu))
	}

	return nil
}
