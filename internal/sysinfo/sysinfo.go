// Package sysinfo reads operating system facts about the host.
package sysinfo

import (
	"context"
	"net/netip"
	"os"
	"os/user"
	"runtime"
	"strings"

	"codeberg.org/mutker/appdiag/internal/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"golang.org/x/sys/unix"
)

// Host reads facts from the local machine. The zero value is ready to use.
type Host struct{}

func New() *Host {
	return &Host{}
}

func (*Host) NetworkInterfaces(ctx context.Context) (map[string][]NetworkAddress, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.New().Wrap(ErrNetworkInfo, err)
	}

	return interfacesFromStats(stats), nil
}

func (*Host) CPUs(ctx context.Context) ([]CPU, error) {
	errFactory := errors.New()

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, errFactory.Wrap(ErrCPUInfo, err)
	}

	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return nil, errFactory.Wrap(ErrCPUInfo, err)
	}

	return cpusFromStats(infos, times), nil
}

// Type returns the operating system name as reported by uname.
func (*Host) Type(_ context.Context) (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", errors.New().Wrap(ErrOSInfo, err)
	}

	return unix.ByteSliceToString(uts.Sysname[:]), nil
}

func (*Host) Platform(_ context.Context) (string, error) {
	return runtime.GOOS, nil
}

func (*Host) Arch(_ context.Context) (string, error) {
	return runtime.GOARCH, nil
}

func (*Host) Hostname(_ context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", errors.New().Wrap(ErrOSInfo, err)
	}

	return name, nil
}

func (*Host) TempDir(_ context.Context) (string, error) {
	return os.TempDir(), nil
}

func (*Host) HomeDir(_ context.Context) (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New().Wrap(ErrUserInfo, err)
	}

	return dir, nil
}

// TotalMemory returns the physical memory size in bytes.
func (*Host) TotalMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrMemoryInfo, err)
	}

	return vm.Total, nil
}

// FreeMemory returns the memory available for new allocations, in bytes.
func (*Host) FreeMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrMemoryInfo, err)
	}

	return vm.Available, nil
}

// LoadAverage returns the 1, 5 and 15 minute load averages.
func (*Host) LoadAverage(ctx context.Context) ([]float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return nil, errors.New().Wrap(ErrLoadInfo, err)
	}

	return []float64{avg.Load1, avg.Load5, avg.Load15}, nil
}

// Uptime returns the system uptime in seconds.
func (*Host) Uptime(ctx context.Context) (uint64, error) {
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrUptimeInfo, err)
	}

	return uptime, nil
}

func (*Host) UserInfo(_ context.Context) (UserInfo, error) {
	u, err := user.Current()
	if err != nil {
		return UserInfo{}, errors.New().Wrap(ErrUserInfo, err)
	}

	return UserInfo{
		UID:      u.Uid,
		GID:      u.Gid,
		Username: u.Username,
		HomeDir:  u.HomeDir,
		Shell:    os.Getenv("SHELL"),
	}, nil
}

func interfacesFromStats(stats psnet.InterfaceStatList) map[string][]NetworkAddress {
	result := make(map[string][]NetworkAddress, len(stats))

	for _, iface := range stats {
		internal := hasFlag(iface.Flags, "loopback")
		addrs := make([]NetworkAddress, 0, len(iface.Addrs))

		for _, a := range iface.Addrs {
			prefix, err := netip.ParsePrefix(a.Addr)
			if err != nil {
				// Some platforms report bare addresses
				addr, perr := netip.ParseAddr(a.Addr)
				if perr != nil {
					continue
				}
				prefix = netip.PrefixFrom(addr, addr.BitLen())
			}

			family := "IPv4"
			if prefix.Addr().Is6() && !prefix.Addr().Is4In6() {
				family = "IPv6"
			}

			addrs = append(addrs, NetworkAddress{
				Address:  prefix.Addr().String(),
				Netmask:  netmask(prefix),
				Family:   family,
				MAC:      macOrZero(iface.HardwareAddr),
				Internal: internal,
				CIDR:     prefix.String(),
			})
		}

		if len(addrs) > 0 {
			result[iface.Name] = addrs
		}
	}

	return result
}

func cpusFromStats(infos []cpu.InfoStat, times []cpu.TimesStat) []CPU {
	cpus := make([]CPU, len(times))

	for i, t := range times {
		var info cpu.InfoStat
		switch {
		case i < len(infos):
			info = infos[i]
		case len(infos) > 0:
			info = infos[0]
		}

		cpus[i] = CPU{
			Model: strings.TrimSpace(info.ModelName),
			Speed: info.Mhz,
			Times: CPUTimes{
				User: t.User,
				Nice: t.Nice,
				Sys:  t.System,
				Idle: t.Idle,
				IRQ:  t.Irq,
			},
		}
	}

	return cpus
}

func netmask(prefix netip.Prefix) string {
	bits := prefix.Addr().BitLen()
	mask := make([]byte, bits/8)
	ones := prefix.Bits()

	for i := range mask {
		switch {
		case ones >= 8:
			mask[i] = 0xff
			ones -= 8
		case ones > 0:
			mask[i] = byte(0xff << (8 - ones))
			ones = 0
		}
	}

	addr, _ := netip.AddrFromSlice(mask)
	return addr.String()
}

func macOrZero(mac string) string {
	if mac == "" {
		return "00:00:00:00:00:00"
	}
	return mac
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}
