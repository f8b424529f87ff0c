package state

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
)

// BabelCfg describes how to reach the routing daemon's control socket.
type BabelCfg struct {
	Addr        string        `yaml:"addr,omitempty"`
	ReadTimeout time.Duration `yaml:"read_timeout,omitempty"` // bound on every read, a timeout ends the batch
	Greeting    bool          `yaml:"greeting,omitempty"`     // consume the daemon greeting up to its "ok" before reading the batch
	Command     string        `yaml:"command,omitempty"`      // sent after the greeting, e.g. "dump". empty means monitor mode
}

type L3roamdCfg struct {
	Socket  string        `yaml:"socket,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// SiteCfg locates the site-wide node prefix and the node's primary MAC.
type SiteCfg struct {
	NodePrefix     netip.Prefix `yaml:"node_prefix,omitempty"` // overrides node_prefix6 from the site file
	SitePath       string       `yaml:"site_path,omitempty"`
	PrimaryMAC     string       `yaml:"primary_mac,omitempty"`
	PrimaryMACPath string       `yaml:"primary_mac_path,omitempty"`
}

// Cfg is the complete meshstat configuration. It is passed by value into every report cycle.
type Cfg struct {
	Babel            BabelCfg      `yaml:"babel,omitempty"`
	L3roamd          L3roamdCfg    `yaml:"l3roamd,omitempty"`
	Site             SiteCfg       `yaml:"site,omitempty"`
	SysfsNet         string        `yaml:"sysfs_net,omitempty"`
	UciRoot          string        `yaml:"uci_root,omitempty"`
	UbusCommand      []string      `yaml:"ubus_command,omitempty"`
	VersionCommand   []string      `yaml:"version_command,omitempty"`
	TrafficInterface string        `yaml:"traffic_interface,omitempty"`
	StreamInterval   time.Duration `yaml:"stream_interval,omitempty"`
	VersionCacheTTL  time.Duration `yaml:"version_cache_ttl,omitempty"`
	Listen           string        `yaml:"listen,omitempty"`   // address of the http server started by "serve"
	LogPath          string        `yaml:"log_path,omitempty"` // if not empty, meshstat will also write logs to this file
}

func DefaultCfg() Cfg {
	return Cfg{
		Babel: BabelCfg{
			Addr:        DefaultBabelAddr,
			ReadTimeout: DefaultReadTimeout,
		},
		L3roamd: L3roamdCfg{
			Socket:  DefaultL3roamdSocket,
			Timeout: DefaultL3roamdTimeout,
		},
		Site: SiteCfg{
			SitePath:       DefaultSitePath,
			PrimaryMACPath: DefaultPrimaryMACPath,
		},
		SysfsNet:         DefaultSysfsNet,
		UciRoot:          DefaultUciRoot,
		UbusCommand:      slices.Clone(DefaultUbusCommand),
		VersionCommand:   slices.Clone(DefaultVersionCommand),
		TrafficInterface: DefaultTrafficInterface,
		StreamInterval:   DefaultStreamInterval,
		VersionCacheTTL:  DefaultVersionCacheTTL,
		Listen:           DefaultListen,
	}
}

// ReadCfg loads the config at path on top of DefaultCfg. A missing file yields the defaults.
func ReadCfg(path string) (Cfg, error) {
	cfg := DefaultCfg()
	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
