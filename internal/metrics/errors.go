package metrics

import "codeberg.org/mutker/appdiag/internal/errors"

const (
	ErrProcessNotFound   = errors.ErrorCode("metrics_process_not_found")
	ErrMetricsCollection = errors.ErrorCode("metrics_collection_failed")
)
