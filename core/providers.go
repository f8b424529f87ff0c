package core

import (
	"context"
	"net/netip"

	"github.com/encodeous/meshstat/babel"
	"github.com/encodeous/meshstat/meshaddr"
	"github.com/encodeous/meshstat/state"
	"github.com/encodeous/meshstat/sys"
)

// Provider builds one report section. Providers never fail: anything that
// cannot be determined is logged and left at its zero value.
type Provider func(ctx context.Context, env *Env) any

var Providers = map[string]Provider{
	"nodeinfo":   func(ctx context.Context, env *Env) any { return NodeInfo(ctx, env) },
	"statistics": func(ctx context.Context, env *Env) any { return Statistics(ctx, env) },
	"neighbours": func(ctx context.Context, env *Env) any { return Neighbours(ctx, env) },
}

func NodeInfo(ctx context.Context, env *Env) state.NodeInfo {
	var info state.NodeInfo
	info.Network.Addresses = nodeAddresses(env)
	info.Network.Mesh.Babel.Interfaces = meshInterfaces(ctx, env)

	ver, err := babeldVersion(ctx, env)
	if err != nil {
		env.Log.Warn("could not determine babeld version", "error", err)
	}
	info.Software.Babeld.Version = ver
	return info
}

func nodeAddresses(env *Env) []string {
	addrs := make([]string, 0, 1)
	prefix, err := env.Sys.NodePrefix()
	if err != nil {
		env.Log.Warn("no node prefix, not reporting mesh address", "error", err)
		return addrs
	}
	mac, err := env.Sys.PrimaryMAC()
	if err != nil {
		env.Log.Warn("no primary mac, not reporting mesh address", "error", err)
		return addrs
	}
	addr, err := meshaddr.Synthesize(mac, prefix)
	if err != nil {
		env.Log.Warn("failed to synthesize mesh address", "error", err)
		return addrs
	}
	return append(addrs, addr.String())
}

func meshInterfaces(ctx context.Context, env *Env) *state.MeshInterfaces {
	devs, err := env.Sys.MeshInterfaces(ctx)
	if err != nil {
		env.Log.Warn("could not enumerate mesh interfaces", "error", err)
		return nil
	}
	ifs := &state.MeshInterfaces{
		Wireless: make([]string, 0),
		Tunnel:   make([]string, 0),
		Other:    make([]string, 0),
	}
	for _, dev := range devs {
		mac, err := env.Sys.InterfaceMAC(dev)
		if err != nil {
			env.Log.Debug("skipping mesh interface", "ifname", dev, "error", err)
			continue
		}
		switch env.Sys.Classify(dev) {
		case state.ClassWireless:
			ifs.Wireless = append(ifs.Wireless, mac.String())
		case state.ClassTunnel:
			ifs.Tunnel = append(ifs.Tunnel, mac.String())
		default:
			ifs.Other = append(ifs.Other, mac.String())
		}
	}
	return ifs
}

func Statistics(ctx context.Context, env *Env) state.Statistics {
	var stats state.Statistics
	stats.Clients = clients(ctx, env)

	traffic, err := env.Sys.Counters(ctx, env.Cfg.TrafficInterface)
	if err != nil {
		env.Log.Warn("could not read traffic counters", "error", err)
	}
	stats.Traffic = traffic

	routes := &babel.RouteAggregator{}
	err = CollectBatch(ctx, env, nil, routes)
	if err != nil {
		env.Log.Warn("incomplete route batch", "error", err)
	}
	if gw, ok := routes.Gateway(); ok {
		stats.GatewayNexthop = gw.String()
	}
	return stats
}

func clients(ctx context.Context, env *Env) state.Clients {
	var c state.Clients
	total, err := env.Sys.ClientCount(ctx)
	if err != nil {
		env.Log.Debug("l3roamd did not report clients", "error", err)
	} else {
		c.Total = &total
	}

	sections, err := env.Sys.UciSections("wireless", "wifi-iface", "network", "mode", "ifname")
	if err != nil {
		env.Log.Debug("no wireless configuration", "error", err)
		return c
	}
	for _, s := range clientInterfaces(sections) {
		freq, stations, err := env.Sys.Stations(s)
		if err != nil {
			env.Log.Debug("could not list stations", "ifname", s, "error", err)
			continue
		}
		is24, is5 := sys.Band(freq)
		switch {
		case is24:
			c.Wifi24 += len(stations)
		case is5:
			c.Wifi5 += len(stations)
		}
	}
	c.Wifi = c.Wifi24 + c.Wifi5
	return c
}

// clientInterfaces returns the access point interfaces of the client network.
func clientInterfaces(sections []sys.UciSection) []string {
	ifs := make([]string, 0)
	for _, s := range sections {
		if s.Options["network"] != "client" || s.Options["mode"] != "ap" {
			continue
		}
		if ifname, ok := s.Options["ifname"]; ok {
			ifs = append(ifs, ifname)
		}
	}
	return ifs
}

// meshConfigInterfaces returns the interfaces configured with the mesh protocol.
func meshConfigInterfaces(sections []sys.UciSection) []string {
	ifs := make([]string, 0)
	for _, s := range sections {
		if s.Options["proto"] != state.MeshProtoPrefix {
			continue
		}
		if ifname, ok := s.Get("ifname"); ok {
			ifs = append(ifs, ifname)
		}
	}
	return ifs
}

func Neighbours(ctx context.Context, env *Env) state.Neighbours {
	return state.Neighbours{
		Babel: BabelNeighbours(ctx, env),
		Wifi:  wifiNeighbours(env),
	}
}

// BabelNeighbours reads one batch and groups its neighbours by owning interface.
func BabelNeighbours(ctx context.Context, env *Env) map[string]*state.InterfaceNeighbourGroup {
	prefix, err := env.Sys.NodePrefix()
	if err != nil {
		env.Log.Warn("no node prefix, omitting neighbour mesh addresses", "error", err)
		prefix = netip.Prefix{}
	}
	agg := babel.NewNeighbourAggregator(env.Sys, prefix)
	err = CollectBatch(ctx, env, agg, nil)
	if err != nil {
		env.Log.Warn("incomplete neighbour batch", "error", err)
	}
	if agg.Dropped() > 0 {
		env.Log.Debug("dropped neighbours on unknown interfaces", "count", agg.Dropped())
	}
	return agg.Groups()
}

func wifiNeighbours(env *Env) map[string]state.WifiInterface {
	res := make(map[string]state.WifiInterface)
	sections, err := env.Sys.UciSections("network", "interface", "proto", "ifname")
	if err != nil {
		env.Log.Debug("no network configuration", "error", err)
		return res
	}
	for _, ifname := range meshConfigInterfaces(sections) {
		mac, err := env.Sys.InterfaceMAC(ifname)
		if err != nil {
			continue
		}
		_, stations, err := env.Sys.Stations(ifname)
		if err != nil {
			// not a wireless interface
			continue
		}
		res[mac.String()] = wifiInterface(stations)
	}
	return res
}

func wifiInterface(stations []sys.Station) state.WifiInterface {
	var wi state.WifiInterface
	if len(stations) == 0 {
		return wi
	}
	wi.Neighbours = make(map[string]state.WifiNeighbour, len(stations))
	for _, st := range stations {
		wi.Neighbours[st.MAC.String()] = state.WifiNeighbour{
			Signal:   st.Signal,
			Noise:    st.Noise,
			Inactive: st.Inactive.Milliseconds(),
		}
	}
	return wi
}
