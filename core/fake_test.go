package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"testing"

	"github.com/encodeous/meshstat/mock"
	"github.com/encodeous/meshstat/state"
	"github.com/encodeous/meshstat/sys"
	"github.com/stretchr/testify/require"
)

var (
	primaryMAC = net.HardwareAddr{0xc0, 0x4a, 0x00, 0x2d, 0x53, 0x7a}
	wlan0MAC   = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x10}
	vpnMAC     = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x20}
	nodePrefix = netip.MustParsePrefix("fdff:182f:da60:abc::/64")
)

type station struct {
	freq     int
	stations []sys.Station
}

type fakeSystem struct {
	macs       map[string]net.HardwareAddr
	classes    map[string]state.InterfaceClass
	meshIfs    []string
	meshIfsErr error
	prefixErr  error
	clients    int
	clientsErr error
	traffic    state.Traffic
	uci        map[string][]sys.UciSection
	wifi       map[string]station
	version    string
	versionN   int
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		macs: map[string]net.HardwareAddr{
			"wlan0":    wlan0MAC,
			"mesh-vpn": vpnMAC,
		},
		classes: map[string]state.InterfaceClass{
			"wlan0":    state.ClassWireless,
			"mesh-vpn": state.ClassTunnel,
		},
		meshIfs: []string{"wlan0", "mesh-vpn"},
		clients: 3,
		uci:     map[string][]sys.UciSection{},
		wifi:    map[string]station{},
		version: "babeld-1.13.1",
	}
}

func (f *fakeSystem) InterfaceMAC(ifname string) (net.HardwareAddr, error) {
	mac, ok := f.macs[ifname]
	if !ok {
		return nil, errors.New("no such interface")
	}
	return mac, nil
}

func (f *fakeSystem) NodePrefix() (netip.Prefix, error) {
	if f.prefixErr != nil {
		return netip.Prefix{}, f.prefixErr
	}
	return nodePrefix, nil
}

func (f *fakeSystem) PrimaryMAC() (net.HardwareAddr, error) {
	return primaryMAC, nil
}

func (f *fakeSystem) MeshInterfaces(ctx context.Context) ([]string, error) {
	return f.meshIfs, f.meshIfsErr
}

func (f *fakeSystem) Classify(ifname string) state.InterfaceClass {
	return f.classes[ifname]
}

func (f *fakeSystem) Counters(ctx context.Context, ifname string) (state.Traffic, error) {
	if ifname != state.DefaultTrafficInterface {
		return state.Traffic{}, errors.New("interface not found")
	}
	return f.traffic, nil
}

func (f *fakeSystem) ClientCount(ctx context.Context) (int, error) {
	return f.clients, f.clientsErr
}

func (f *fakeSystem) UciSections(pkg, typ string, keys ...string) ([]sys.UciSection, error) {
	all, ok := f.uci[pkg]
	if !ok {
		return nil, errors.New("no such package")
	}
	sections := make([]sys.UciSection, 0, len(all))
	for _, s := range all {
		if s.Type == typ {
			sections = append(sections, s)
		}
	}
	return sections, nil
}

func (f *fakeSystem) Stations(ifname string) (int, []sys.Station, error) {
	st, ok := f.wifi[ifname]
	if !ok {
		return 0, nil, errors.New("not a wireless interface")
	}
	return st.freq, st.stations, nil
}

func (f *fakeSystem) BabeldVersion(ctx context.Context) (string, error) {
	f.versionN++
	return f.version, nil
}

// testEnv starts a fake daemon serving batch and returns an env pointing at it.
func testEnv(t *testing.T, system System, batch ...string) *Env {
	t.Helper()
	srv := &mock.BabelServer{Batch: batch}
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Close)
	cfg := mock.MockCfg(t.TempDir(), srv.Addr(), "")
	return NewEnv(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), system)
}
