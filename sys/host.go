package sys

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strings"

	"github.com/encodeous/meshstat/state"
)

// Host is the live system: netlink, sysfs, ubus, UCI, nl80211 and the
// daemons' sockets, configured by Cfg.
type Host struct {
	Cfg state.Cfg
	Log *slog.Logger
}

func (h *Host) InterfaceMAC(ifname string) (net.HardwareAddr, error) {
	return InterfaceMAC(ifname)
}

func (h *Host) NodePrefix() (netip.Prefix, error) {
	return NodePrefix(h.Cfg.Site)
}

func (h *Host) PrimaryMAC() (net.HardwareAddr, error) {
	return PrimaryMAC(h.Cfg.Site)
}

func (h *Host) MeshInterfaces(ctx context.Context) ([]string, error) {
	return MeshInterfaces(ctx, h.Log, h.Cfg.UbusCommand)
}

func (h *Host) Classify(ifname string) state.InterfaceClass {
	return Classify(h.Cfg.SysfsNet, ifname)
}

func (h *Host) Counters(ctx context.Context, ifname string) (state.Traffic, error) {
	return Counters(ctx, ifname)
}

func (h *Host) ClientCount(ctx context.Context) (int, error) {
	return ClientCount(ctx, h.Cfg.L3roamd)
}

func (h *Host) UciSections(pkg, typ string, keys ...string) ([]UciSection, error) {
	return LoadUci(h.Cfg.UciRoot, pkg, typ, keys...)
}

func (h *Host) Stations(ifname string) (int, []Station, error) {
	return Stations(ifname)
}

// BabeldVersion runs the version command. babeld prints its version on stderr.
func (h *Host) BabeldVersion(ctx context.Context) (string, error) {
	if len(h.Cfg.VersionCommand) == 0 {
		return "", fmt.Errorf("no version command configured")
	}
	out, err := Exec(ctx, h.Log, h.Cfg.VersionCommand[0], h.Cfg.VersionCommand[1:]...)
	if err != nil {
		return "", err
	}
	v, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return v, nil
}
