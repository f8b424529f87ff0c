package state

import (
	"fmt"
	"net"
	"net/netip"
	"os"
	"path"
	"path/filepath"
	"regexp"
)

var ifnamePattern, _ = regexp.Compile("^[0-9A-Za-z._@-]+$")

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func IfnameValidator(s string) error {
	if !ifnamePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid interface name, must match pattern %s", s, ifnamePattern.String())
	}
	if len(s) > 15 {
		return fmt.Errorf("len(\"%s\") = %d > 15 is too long", s, len(s))
	}
	return nil
}

func BindValidator(s string) error {
	_, err := netip.ParseAddrPort(s)
	return err
}

func NodePrefixValidator(p netip.Prefix) error {
	if !p.Addr().Is6() || p.Addr().Is4In6() {
		return fmt.Errorf("node prefix %s is not an IPv6 prefix", p)
	}
	if p.Bits() != 64 {
		return fmt.Errorf("node prefix %s must be a /64", p)
	}
	return nil
}

func CfgValidator(cfg *Cfg) error {
	if _, _, err := net.SplitHostPort(cfg.Babel.Addr); err != nil {
		return fmt.Errorf("babel.addr is invalid: %w", err)
	}
	if cfg.Babel.ReadTimeout <= 0 {
		return fmt.Errorf("babel.read_timeout must be positive")
	}
	if cfg.Babel.Command != "" && !cfg.Babel.Greeting {
		return fmt.Errorf("babel.command requires babel.greeting")
	}
	if cfg.L3roamd.Timeout <= 0 {
		return fmt.Errorf("l3roamd.timeout must be positive")
	}
	if cfg.Site.NodePrefix.IsValid() {
		if err := NodePrefixValidator(cfg.Site.NodePrefix); err != nil {
			return err
		}
	}
	if cfg.Site.PrimaryMAC != "" {
		if _, err := net.ParseMAC(cfg.Site.PrimaryMAC); err != nil {
			return fmt.Errorf("site.primary_mac is invalid: %w", err)
		}
	}
	if err := IfnameValidator(cfg.TrafficInterface); err != nil {
		return err
	}
	if cfg.StreamInterval <= 0 {
		return fmt.Errorf("stream_interval must be positive")
	}
	if cfg.VersionCacheTTL < 0 {
		return fmt.Errorf("version_cache_ttl must not be negative")
	}
	if cfg.Listen != "" {
		if err := BindValidator(cfg.Listen); err != nil {
			return fmt.Errorf("listen is invalid: %w", err)
		}
	}
	if cfg.LogPath != "" {
		if err := PathValidator(cfg.LogPath); err != nil {
			return err
		}
	}
	return nil
}
