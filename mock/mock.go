package mock

import (
	"net/netip"
	"time"

	"github.com/encodeous/meshstat/state"
)

// MockCfg returns a config pointing at the given fake daemons, with every
// filesystem path rooted below dir.
func MockCfg(dir, babelAddr, l3roamdSocket string) state.Cfg {
	cfg := state.DefaultCfg()
	cfg.Babel.Addr = babelAddr
	cfg.Babel.ReadTimeout = time.Second * 2
	cfg.L3roamd.Socket = l3roamdSocket
	cfg.L3roamd.Timeout = time.Second
	cfg.Site.NodePrefix = netip.MustParsePrefix("fdff:182f:da60:abc::/64")
	cfg.Site.PrimaryMAC = "c0:4a:00:2d:53:7a"
	cfg.SysfsNet = dir + "/sys/class/net"
	cfg.UciRoot = dir + "/etc/config"
	cfg.StreamInterval = time.Millisecond * 20
	return cfg
}
