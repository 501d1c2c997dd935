package sysinfo

// BytesPerMegabyte is the divisor used to report memory figures in MB.
const BytesPerMegabyte = 1048576

// NetworkAddress is one address assigned to a network interface.
type NetworkAddress struct {
	Address  string `json:"address"`
	Netmask  string `json:"netmask"`
	Family   string `json:"family"`
	MAC      string `json:"mac"`
	Internal bool   `json:"internal"`
	CIDR     string `json:"cidr"`
}

// CPUTimes holds the cumulative time, in seconds, a logical CPU spent in
// each mode.
type CPUTimes struct {
	User float64 `json:"user"`
	Nice float64 `json:"nice"`
	Sys  float64 `json:"sys"`
	Idle float64 `json:"idle"`
	IRQ  float64 `json:"irq"`
}

// CPU describes a single logical CPU.
type CPU struct {
	Model string   `json:"model"`
	Speed float64  `json:"speed"`
	Times CPUTimes `json:"times"`
}

// UserInfo describes the user the process runs as.
type UserInfo struct {
	UID      string `json:"uid"`
	GID      string `json:"gid"`
	Username string `json:"username"`
	HomeDir  string `json:"homedir"`
	Shell    string `json:"shell"`
}

// ToMegabytes converts a byte count to megabytes.
func ToMegabytes(bytes uint64) float64 {
	return float64(bytes) / BytesPerMegabyte
}
