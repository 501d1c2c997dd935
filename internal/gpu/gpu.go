// Package gpu builds a GPU feature status table from NVML.
package gpu

import (
	"context"
	"fmt"
	"strconv"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

type Reporter struct {
	nvml   nvmlController
	logger logger.Logger
}

func New(log logger.Logger) *Reporter {
	return &Reporter{
		nvml:   &nvmlWrapper{},
		logger: log,
	}
}

// FeatureStatus queries every visible device. A host where NVML cannot be
// loaded yields {"nvml": "unavailable_software"} rather than an error.
func (r *Reporter) FeatureStatus(ctx context.Context) (FeatureStatus, error) {
	errFactory := errors.New()

	if err := r.nvml.Initialize(); err != nil {
		r.logger.Debug().Err(err).Msg("NVML unavailable")
		return FeatureStatus{"nvml": StatusUnavailableSoftware}, nil
	}
	defer func() {
		if err := r.nvml.Shutdown(); err != nil {
			r.logger.Debug().Err(err).Msg("Failed to shut down NVML")
		}
	}()

	status := FeatureStatus{"nvml": StatusEnabled}

	version, err := r.nvml.GetDriverVersion()
	if err != nil {
		return nil, err
	}
	status["driver_version"] = version

	count, err := r.nvml.GetDeviceCount()
	if err != nil {
		return nil, err
	}
	status["device_count"] = strconv.Itoa(count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errFactory.Wrap(errors.ErrTimeout, err)
		}

		device, err := r.nvml.GetDevice(i)
		if err != nil {
			return nil, err
		}

		if err := deviceFeatures(status, fmt.Sprintf("gpu%d_", i), device); err != nil {
			return nil, errFactory.Wrap(ErrFeatureQueryFailed, fmt.Errorf("gpu%d: %w", i, err))
		}
	}

	r.logger.Debug().Int("devices", count).Msg("GPU feature status collected")

	return status, nil
}

func deviceFeatures(status FeatureStatus, prefix string, device nvml.Device) error {
	name, ret := device.GetName()
	if !IsNVMLSuccess(ret) {
		return newNVMLError(ret)
	}
	status[prefix+"name"] = name

	queries := []struct {
		feature string
		read    func() (string, nvml.Return)
	}{
		{"persistence_mode", func() (string, nvml.Return) {
			state, ret := device.GetPersistenceMode()
			return enableStatus(state), ret
		}},
		{"compute_mode", func() (string, nvml.Return) {
			mode, ret := device.GetComputeMode()
			return computeModeStatus(mode), ret
		}},
		{"display", func() (string, nvml.Return) {
			state, ret := device.GetDisplayActive()
			return enableStatus(state), ret
		}},
		{"ecc", func() (string, nvml.Return) {
			current, _, ret := device.GetEccMode()
			return enableStatus(current), ret
		}},
		{"mig", func() (string, nvml.Return) {
			current, _, ret := device.GetMigMode()
			if current == nvml.DEVICE_MIG_ENABLE {
				return StatusEnabled, ret
			}
			return StatusDisabled, ret
		}},
		{"power_management", func() (string, nvml.Return) {
			state, ret := device.GetPowerManagementMode()
			return enableStatus(state), ret
		}},
		{"accounting", func() (string, nvml.Return) {
			state, ret := device.GetAccountingMode()
			return enableStatus(state), ret
		}},
		{"fan_control", func() (string, nvml.Return) {
			fans, ret := device.GetNumFans()
			if fans > 0 {
				return StatusEnabled, ret
			}
			return StatusDisabled, ret
		}},
	}

	for _, q := range queries {
		value, ret := q.read()
		switch {
		case ret == nvml.ERROR_NOT_SUPPORTED:
			status[prefix+q.feature] = StatusUnavailable
		case !IsNVMLSuccess(ret):
			return fmt.Errorf("%s: %w", q.feature, newNVMLError(ret))
		default:
			status[prefix+q.feature] = value
		}
	}

	return nil
}

func enableStatus(state nvml.EnableState) string {
	if state == nvml.FEATURE_ENABLED {
		return StatusEnabled
	}
	return StatusDisabled
}

func computeModeStatus(mode nvml.ComputeMode) string {
	switch mode {
	case nvml.COMPUTEMODE_DEFAULT:
		return "default"
	case nvml.COMPUTEMODE_EXCLUSIVE_THREAD:
		return "exclusive_thread"
	case nvml.COMPUTEMODE_PROHIBITED:
		return "prohibited"
	case nvml.COMPUTEMODE_EXCLUSIVE_PROCESS:
		return "exclusive_process"
	default:
		return "unknown"
	}
}
