package diagnostics

import (
	"context"
	"fmt"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/settings"
)

// PodResult is the outcome of a deferred settings report. Err is set when
// the settings could not be read, in which case nothing was logged.
type PodResult struct {
	Packaged bool
	Fields   []settings.Field
	Err      error
}

// PodStats requests ConfigFields from the settings store without blocking
// the caller. The returned channel receives exactly one PodResult once the
// request completes; no timeout is applied beyond ctx.
func (r *Reporter) PodStats(ctx context.Context) <-chan PodResult {
	result := make(chan PodResult, 1)

	go func() {
		result <- r.podStats(ctx)
	}()

	return result
}

func (r *Reporter) podStats(ctx context.Context) PodResult {
	errFactory := errors.New()

	fields, err := r.deps.Config.GetFields(ctx, ConfigFields)
	if err != nil {
		return PodResult{Err: errFactory.Wrap(ErrPodStats, err)}
	}

	packaged, err := r.deps.Process.IsPackaged(ctx)
	if err != nil {
		return PodResult{Err: errFactory.Wrap(ErrPodStats, err)}
	}

	// Render everything first so a bad value does not leave a partial report
	lines := make([]string, 0, len(fields)+2)
	lines = append(lines, podBanner, fmt.Sprintf("Is app packaged? %t", packaged))
	for _, field := range fields {
		line, err := formatFact(field.Name, field.Value)
		if err != nil {
			return PodResult{Err: errFactory.Wrap(ErrPodStats, err)}
		}
		lines = append(lines, line)
	}

	for _, line := range lines {
		r.info(line)
	}

	return PodResult{Packaged: packaged, Fields: fields}
}
