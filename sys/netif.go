package sys

import (
	"fmt"
	"net"
	"path/filepath"

	"github.com/encodeous/meshstat/state"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// InterfaceMAC returns the ethernet hardware address of a kernel interface.
func InterfaceMAC(ifname string) (net.HardwareAddr, error) {
	link, err := netlink.LinkByName(ifname)
	if err != nil {
		return nil, fmt.Errorf("failed to look up interface %s: %w", ifname, err)
	}
	mac := link.Attrs().HardwareAddr
	if len(mac) != 6 {
		return nil, fmt.Errorf("interface %s has no ethernet hardware address", ifname)
	}
	return mac, nil
}

// Classify tells wireless and tunnel interfaces apart by the marker files the
// kernel exposes below sysfsNet/<ifname>.
func Classify(sysfsNet, ifname string) state.InterfaceClass {
	if hasMarker(sysfsNet, ifname, "wireless") {
		return state.ClassWireless
	}
	if hasMarker(sysfsNet, ifname, "tun_flags") {
		return state.ClassTunnel
	}
	return state.ClassOther
}

func hasMarker(sysfsNet, ifname, name string) bool {
	return unix.Access(filepath.Join(sysfsNet, ifname, name), unix.F_OK) == nil
}
