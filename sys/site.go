package sys

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/encodeous/meshstat/state"
)

var ErrNoPrefix = errors.New("no node prefix configured")

// NodePrefix returns the configured prefix, falling back to node_prefix6 of the site file.
func NodePrefix(cfg state.SiteCfg) (netip.Prefix, error) {
	if cfg.NodePrefix.IsValid() {
		return cfg.NodePrefix, nil
	}
	file, err := os.ReadFile(cfg.SitePath)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %w", ErrNoPrefix, err)
	}
	var site struct {
		NodePrefix6 string `json:"node_prefix6"`
	}
	err = json.Unmarshal(file, &site)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("failed to parse %s: %w", cfg.SitePath, err)
	}
	if site.NodePrefix6 == "" {
		return netip.Prefix{}, fmt.Errorf("%w: %s has no node_prefix6", ErrNoPrefix, cfg.SitePath)
	}
	prefix, err := netip.ParsePrefix(site.NodePrefix6)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %w", ErrNoPrefix, err)
	}
	if err = state.NodePrefixValidator(prefix); err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: %w", ErrNoPrefix, err)
	}
	return prefix, nil
}

// PrimaryMAC returns the node's primary hardware address.
func PrimaryMAC(cfg state.SiteCfg) (net.HardwareAddr, error) {
	s := cfg.PrimaryMAC
	if s == "" {
		file, err := os.ReadFile(cfg.PrimaryMACPath)
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(string(file))
	}
	return net.ParseMAC(s)
}
