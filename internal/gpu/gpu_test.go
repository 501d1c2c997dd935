package gpu

import (
	"context"
	stderrors "errors"
	"testing"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNVML struct {
	initErr  error
	devices  []nvml.Device
	driver   string
	shutdown int
}

func (f *fakeNVML) Initialize() error { return f.initErr }

func (f *fakeNVML) Shutdown() error {
	f.shutdown++
	return nil
}

func (f *fakeNVML) GetDeviceCount() (int, error) { return len(f.devices), nil }

func (f *fakeNVML) GetDevice(index int) (nvml.Device, error) {
	return f.devices[index], nil
}

func (f *fakeNVML) GetDriverVersion() (string, error) { return f.driver, nil }

// fakeDevice overrides only the queries the reporter issues.
type fakeDevice struct {
	nvml.Device
	name        string
	persistence nvml.EnableState
	compute     nvml.ComputeMode
	display     nvml.EnableState
	ecc         nvml.EnableState
	eccRet      nvml.Return
	mig         int
	migRet      nvml.Return
	power       nvml.EnableState
	accounting  nvml.EnableState
	fans        int
}

func (d *fakeDevice) GetName() (string, nvml.Return) { return d.name, nvml.SUCCESS }

func (d *fakeDevice) GetPersistenceMode() (nvml.EnableState, nvml.Return) {
	return d.persistence, nvml.SUCCESS
}

func (d *fakeDevice) GetComputeMode() (nvml.ComputeMode, nvml.Return) {
	return d.compute, nvml.SUCCESS
}

func (d *fakeDevice) GetDisplayActive() (nvml.EnableState, nvml.Return) {
	return d.display, nvml.SUCCESS
}

func (d *fakeDevice) GetEccMode() (nvml.EnableState, nvml.EnableState, nvml.Return) {
	return d.ecc, d.ecc, d.eccRet
}

func (d *fakeDevice) GetMigMode() (int, int, nvml.Return) {
	return d.mig, d.mig, d.migRet
}

func (d *fakeDevice) GetPowerManagementMode() (nvml.EnableState, nvml.Return) {
	return d.power, nvml.SUCCESS
}

func (d *fakeDevice) GetAccountingMode() (nvml.EnableState, nvml.Return) {
	return d.accounting, nvml.SUCCESS
}

func (d *fakeDevice) GetNumFans() (int, nvml.Return) { return d.fans, nvml.SUCCESS }

func newTestReporter(ctrl nvmlController) *Reporter {
	return &Reporter{nvml: ctrl, logger: logger.Default()}
}

func TestFeatureStatusUnavailableWithoutNVML(t *testing.T) {
	ctrl := &fakeNVML{initErr: errors.New().Wrap(ErrInitFailed, stderrors.New("library not found"))}

	status, err := newTestReporter(ctrl).FeatureStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FeatureStatus{"nvml": StatusUnavailableSoftware}, status)
	assert.Zero(t, ctrl.shutdown, "shutdown is only called after a successful init")
}

func TestFeatureStatus(t *testing.T) {
	ctrl := &fakeNVML{
		driver: "550.54.14",
		devices: []nvml.Device{
			&fakeDevice{
				name:        "NVIDIA GeForce RTX 4090",
				persistence: nvml.FEATURE_ENABLED,
				compute:     nvml.COMPUTEMODE_DEFAULT,
				display:     nvml.FEATURE_ENABLED,
				eccRet:      nvml.ERROR_NOT_SUPPORTED,
				migRet:      nvml.ERROR_NOT_SUPPORTED,
				power:       nvml.FEATURE_ENABLED,
				accounting:  nvml.FEATURE_DISABLED,
				fans:        2,
			},
			&fakeDevice{
				name:        "NVIDIA A100",
				persistence: nvml.FEATURE_DISABLED,
				compute:     nvml.COMPUTEMODE_EXCLUSIVE_PROCESS,
				display:     nvml.FEATURE_DISABLED,
				ecc:         nvml.FEATURE_ENABLED,
				mig:         nvml.DEVICE_MIG_ENABLE,
				power:       nvml.FEATURE_ENABLED,
				accounting:  nvml.FEATURE_ENABLED,
			},
		},
	}

	status, err := newTestReporter(ctrl).FeatureStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, ctrl.shutdown)
	assert.Equal(t, StatusEnabled, status["nvml"])
	assert.Equal(t, "550.54.14", status["driver_version"])
	assert.Equal(t, "2", status["device_count"])

	assert.Equal(t, "NVIDIA GeForce RTX 4090", status["gpu0_name"])
	assert.Equal(t, StatusEnabled, status["gpu0_persistence_mode"])
	assert.Equal(t, "default", status["gpu0_compute_mode"])
	assert.Equal(t, StatusUnavailable, status["gpu0_ecc"])
	assert.Equal(t, StatusUnavailable, status["gpu0_mig"])
	assert.Equal(t, StatusDisabled, status["gpu0_accounting"])
	assert.Equal(t, StatusEnabled, status["gpu0_fan_control"])

	assert.Equal(t, "exclusive_process", status["gpu1_compute_mode"])
	assert.Equal(t, StatusEnabled, status["gpu1_ecc"])
	assert.Equal(t, StatusEnabled, status["gpu1_mig"])
	assert.Equal(t, StatusDisabled, status["gpu1_display"])
	assert.Equal(t, StatusDisabled, status["gpu1_fan_control"])
}

func TestFeatureStatusQueryFailure(t *testing.T) {
	ctrl := &fakeNVML{
		devices: []nvml.Device{&fakeDevice{name: "broken", eccRet: nvml.ERROR_GPU_IS_LOST}},
	}

	_, err := newTestReporter(ctrl).FeatureStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrFeatureQueryFailed))
	assert.Contains(t, err.Error(), "ecc")
	assert.Equal(t, 1, ctrl.shutdown)
}
