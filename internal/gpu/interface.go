package gpu

import "context"

// FeatureStatusReader reports the status of GPU features on the host
type FeatureStatusReader interface {
	FeatureStatus(ctx context.Context) (FeatureStatus, error)
}

// FeatureStatus maps a feature name to its status
type FeatureStatus map[string]string

// Feature status values
const (
	StatusEnabled             = "enabled"
	StatusDisabled            = "disabled_off"
	StatusUnavailable         = "unavailable_off"
	StatusUnavailableSoftware = "unavailable_software"
)
