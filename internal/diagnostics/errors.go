package diagnostics

import "codeberg.org/mutker/appdiag/internal/errors"

const (
	ErrMissingDependency = errors.ErrorCode("diagnostics_missing_dependency")
	ErrSerializeFact     = errors.ErrorCode("diagnostics_serialize_fact_failed")

	ErrSystemStats = errors.ErrorCode("diagnostics_system_stats_failed")
	ErrGPUStats    = errors.ErrorCode("diagnostics_gpu_stats_failed")
	ErrPodStats    = errors.ErrorCode("diagnostics_pod_stats_failed")
	ErrAppMetrics  = errors.ErrorCode("diagnostics_app_metrics_failed")
	ErrProcessInfo = errors.ErrorCode("diagnostics_process_info_failed")
)
