package core

import (
	"context"
	"log/slog"
	"net"
	"net/netip"

	"github.com/encodeous/meshstat/babel"
	"github.com/encodeous/meshstat/state"
	"github.com/encodeous/meshstat/sys"
)

// System is what a report cycle needs from the host apart from the routing
// daemon itself. sys.Host is the live implementation.
type System interface {
	babel.MACResolver
	NodePrefix() (netip.Prefix, error)
	PrimaryMAC() (net.HardwareAddr, error)
	// MeshInterfaces returns the kernel names of all mesh interfaces.
	MeshInterfaces(ctx context.Context) ([]string, error)
	Classify(ifname string) state.InterfaceClass
	Counters(ctx context.Context, ifname string) (state.Traffic, error)
	ClientCount(ctx context.Context) (int, error)
	UciSections(pkg, typ string, keys ...string) ([]sys.UciSection, error)
	// Stations returns the operating frequency in MHz and the associated peers.
	Stations(ifname string) (int, []sys.Station, error)
	BabeldVersion(ctx context.Context) (string, error)
}

// Env carries everything a provider needs. It is passed explicitly into every
// call and may be shared by concurrent cycles.
type Env struct {
	Cfg state.Cfg
	Log *slog.Logger
	Sys System
	// Version caches the daemon version. When nil, every query runs the version command.
	Version *VersionCache
}

// NewEnv builds the environment. A zero version_cache_ttl runs the version
// command on every request.
func NewEnv(cfg state.Cfg, log *slog.Logger, system System) *Env {
	env := &Env{
		Cfg: cfg,
		Log: log,
		Sys: system,
	}
	if cfg.VersionCacheTTL > 0 {
		env.Version = NewVersionCache(cfg.VersionCacheTTL)
	}
	return env
}
