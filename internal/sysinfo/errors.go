package sysinfo

import "codeberg.org/mutker/appdiag/internal/errors"

const (
	ErrNetworkInfo = errors.ErrorCode("sysinfo_network_info_failed")
	ErrCPUInfo     = errors.ErrorCode("sysinfo_cpu_info_failed")
	ErrOSInfo      = errors.ErrorCode("sysinfo_os_info_failed")
	ErrMemoryInfo  = errors.ErrorCode("sysinfo_memory_info_failed")
	ErrLoadInfo    = errors.ErrorCode("sysinfo_load_info_failed")
	ErrUptimeInfo  = errors.ErrorCode("sysinfo_uptime_info_failed")
	ErrUserInfo    = errors.ErrorCode("sysinfo_user_info_failed")
)
