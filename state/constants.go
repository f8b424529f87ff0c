package state

import "time"

const (
	// ProtocolBabel tags neighbour views learned from the routing daemon.
	ProtocolBabel = "babel"
	// MeshProtoPrefix marks mesh interfaces in the network configuration.
	MeshProtoPrefix = "gluon_mesh"
)

var (
	DefaultConfigPath = "/etc/meshstat.yaml"

	DefaultBabelAddr   = "[::1]:33123"
	DefaultReadTimeout = time.Second * 30 // same bound the system RPC path uses

	DefaultL3roamdSocket  = "/var/run/l3roamd.sock"
	DefaultL3roamdTimeout = time.Second * 2

	DefaultSitePath       = "/lib/gluon/site.json"
	DefaultPrimaryMACPath = "/lib/gluon/core/sysconfig/primary_mac"

	DefaultSysfsNet         = "/sys/class/net"
	DefaultUciRoot          = "/etc/config"
	DefaultUbusCommand      = []string{"ubus", "call", "network.interface", "dump"}
	DefaultVersionCommand   = []string{"babeld", "-V"}
	DefaultTrafficInterface = "local-node"

	DefaultStreamInterval  = time.Second * 10
	DefaultVersionCacheTTL = time.Minute * 5
	DefaultListen          = "[::1]:8070"

	// wifi band boundaries in MHz, upper bound exclusive
	Wifi24Low  = 2400
	Wifi24High = 2500
	Wifi5Low   = 5000
	Wifi5High  = 6000
)
