package sysinfo

import (
	"context"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/v4/cpu"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMegabytes(t *testing.T) {
	assert.InDelta(t, 2.0, ToMegabytes(2097152), 0)
	assert.InDelta(t, 0.5, ToMegabytes(524288), 0)

	out, err := json.Marshal(ToMegabytes(2097152))
	require.NoError(t, err)
	assert.Equal(t, "2", string(out))
}

func TestInterfacesFromStats(t *testing.T) {
	stats := psnet.InterfaceStatList{
		{
			Name:  "lo",
			Flags: []string{"up", "loopback"},
			Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}, {Addr: "::1/128"}},
		},
		{
			Name:         "eth0",
			HardwareAddr: "aa:bb:cc:dd:ee:ff",
			Flags:        []string{"up", "broadcast"},
			Addrs:        psnet.InterfaceAddrList{{Addr: "192.168.1.20/24"}, {Addr: "garbage"}},
		},
		{
			Name: "down0",
		},
	}

	got := interfacesFromStats(stats)

	require.Len(t, got, 2, "interfaces without addresses are skipped")
	require.Len(t, got["lo"], 2)
	assert.Equal(t, NetworkAddress{
		Address:  "127.0.0.1",
		Netmask:  "255.0.0.0",
		Family:   "IPv4",
		MAC:      "00:00:00:00:00:00",
		Internal: true,
		CIDR:     "127.0.0.1/8",
	}, got["lo"][0])
	assert.Equal(t, "IPv6", got["lo"][1].Family)
	assert.Equal(t, "ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", got["lo"][1].Netmask)

	require.Len(t, got["eth0"], 1)
	assert.Equal(t, "255.255.255.0", got["eth0"][0].Netmask)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got["eth0"][0].MAC)
	assert.False(t, got["eth0"][0].Internal)
}

func TestCPUsFromStats(t *testing.T) {
	infos := []cpu.InfoStat{{ModelName: " Example CPU @ 3.00GHz ", Mhz: 3000}}
	times := []cpu.TimesStat{
		{CPU: "cpu0", User: 10, System: 5, Idle: 100, Nice: 1, Irq: 0.5},
		{CPU: "cpu1", User: 20, System: 6, Idle: 90},
	}

	got := cpusFromStats(infos, times)

	require.Len(t, got, 2)
	assert.Equal(t, "Example CPU @ 3.00GHz", got[0].Model)
	assert.InDelta(t, 3000.0, got[1].Speed, 0)
	assert.Equal(t, CPUTimes{User: 10, Nice: 1, Sys: 5, Idle: 100, IRQ: 0.5}, got[0].Times)
	assert.InDelta(t, 20.0, got[1].Times.User, 0)
}

func TestHostStaticFacts(t *testing.T) {
	h := New()
	ctx := context.Background()

	platform, err := h.Platform(ctx)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOOS, platform)

	arch, err := h.Arch(ctx)
	require.NoError(t, err)
	assert.Equal(t, runtime.GOARCH, arch)

	tmp, err := h.TempDir(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tmp)

	osType, err := h.Type(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, osType)
}
