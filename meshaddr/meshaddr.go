// Package meshaddr derives mesh-routable IPv6 addresses from hardware addresses.
//
// The host part of every address is the modified EUI-64 interface identifier of
// the MAC, the same embedding the kernel uses for link-local addresses, so a
// node's mesh address can be computed from any neighbour's link-local address.
package meshaddr

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
)

var (
	ErrNotEUI64   = errors.New("address does not carry a modified EUI-64 identifier")
	ErrBadMAC     = errors.New("hardware address must be 6 bytes")
	ErrBadPrefix  = errors.New("prefix must be an IPv6 prefix")
	linkLocalNet  = netip.MustParsePrefix("fe80::/64")
	identifierLen = 8
)

// Synthesize returns the address made of the first 64 bits of prefix and the
// interface identifier of mac.
func Synthesize(mac net.HardwareAddr, prefix netip.Prefix) (netip.Addr, error) {
	if len(mac) != 6 {
		return netip.Addr{}, fmt.Errorf("%w: got %d bytes", ErrBadMAC, len(mac))
	}
	if !prefix.IsValid() || !prefix.Addr().Is6() || prefix.Addr().Is4In6() {
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrBadPrefix, prefix)
	}
	b := prefix.Masked().Addr().As16()
	copy(b[16-identifierLen:], interfaceID(mac))
	return netip.AddrFrom16(b), nil
}

// LinkLocal returns the fe80::/64 address the routing daemon reports for mac.
func LinkLocal(mac net.HardwareAddr) (netip.Addr, error) {
	return Synthesize(mac, linkLocalNet)
}

// ToMAC reverses the link-local embedding. A trailing %zone is ignored.
func ToMAC(linkLocal string) (net.HardwareAddr, error) {
	if i := strings.IndexByte(linkLocal, '%'); i >= 0 {
		linkLocal = linkLocal[:i]
	}
	addr, err := netip.ParseAddr(linkLocal)
	if err != nil {
		return nil, err
	}
	if !addr.Is6() || addr.Is4In6() || !linkLocalNet.Contains(addr) {
		return nil, fmt.Errorf("%w: %s is not in %s", ErrNotEUI64, linkLocal, linkLocalNet)
	}
	b := addr.As16()
	id := b[16-identifierLen:]
	if id[3] != 0xff || id[4] != 0xfe {
		return nil, fmt.Errorf("%w: %s", ErrNotEUI64, linkLocal)
	}
	return net.HardwareAddr{id[0] ^ 0x02, id[1], id[2], id[5], id[6], id[7]}, nil
}

func interfaceID(mac net.HardwareAddr) []byte {
	return []byte{mac[0] ^ 0x02, mac[1], mac[2], 0xff, 0xfe, mac[3], mac[4], mac[5]}
}
