//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/encodeous/meshstat/core"
	"github.com/encodeous/meshstat/mock"
	"github.com/encodeous/meshstat/state"
	"github.com/encodeous/meshstat/sys"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

// NodeHarness runs meshstat against the live host with a fake OpenWrt root,
// a fake babeld and a fake l3roamd.
type NodeHarness struct {
	Root    string
	Babel   *mock.BabelServer
	L3roamd *mock.L3roamdServer
	Env     *core.Env
	URL     string

	cancel context.CancelFunc
	errs   chan error
}

const interfaceDump = `{"interface":[{"interface":"loopback","proto":"gluon_mesh","device":"lo"}]}`

const networkUci = `
config interface 'loopback'
	option ifname 'lo'
	option proto 'gluon_mesh'
`

// NewNodeHarness lays out the fake root and starts the daemons. Batch is what
// the fake babeld answers every connection with.
func NewNodeHarness(t *testing.T, batch ...string) *NodeHarness {
	t.Helper()
	h := &NodeHarness{Root: t.TempDir()}

	h.writeFile(t, "lib/gluon/site.json", `{"node_prefix6":"fdff:182f:da60:abc::/64"}`)
	h.writeFile(t, "lib/gluon/core/sysconfig/primary_mac", "c0:4a:00:2d:53:7a\n")
	h.writeFile(t, "etc/config/network", networkUci)
	h.writeFile(t, "etc/config/wireless", "")

	h.Babel = &mock.BabelServer{
		Greeting:      []string{"BABEL 1.0", "version babeld-1.13.1", "ok"},
		ExpectCommand: true,
		Batch:         batch,
	}
	require.NoError(t, h.Babel.Start())

	sock, err := nettest.LocalPath()
	require.NoError(t, err)
	h.L3roamd = &mock.L3roamdServer{Reply: `{"clients":4}`}
	require.NoError(t, h.L3roamd.Start(sock))

	cfg := state.DefaultCfg()
	cfg.Babel = state.BabelCfg{Addr: h.Babel.Addr(), ReadTimeout: 2 * time.Second, Greeting: true, Command: "dump"}
	cfg.L3roamd = state.L3roamdCfg{Socket: sock, Timeout: time.Second}
	cfg.Site.SitePath = filepath.Join(h.Root, "lib/gluon/site.json")
	cfg.Site.PrimaryMACPath = filepath.Join(h.Root, "lib/gluon/core/sysconfig/primary_mac")
	cfg.UciRoot = filepath.Join(h.Root, "etc/config")
	cfg.UbusCommand = []string{"echo", interfaceDump}
	cfg.VersionCommand = []string{"sh", "-c", "echo babeld-1.13.1 >&2"}
	cfg.TrafficInterface = "lo"
	cfg.StreamInterval = 50 * time.Millisecond
	cfg.Listen = freeAddr(t)
	require.NoError(t, state.CfgValidator(&cfg))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.Env = core.NewEnv(cfg, logger, &sys.Host{Cfg: cfg, Log: logger})
	h.URL = "http://" + cfg.Listen
	return h
}

func (h *NodeHarness) writeFile(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(h.Root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// Start serves HTTP until Stop and waits for the listener to come up.
func (h *NodeHarness) Start(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.errs = make(chan error, 1)
	go func() {
		h.errs <- core.Serve(ctx, h.Env)
	}()
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", h.Env.Cfg.Listen)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 10*time.Millisecond)
}

func (h *NodeHarness) Stop(t *testing.T) {
	t.Helper()
	if h.cancel != nil {
		h.cancel()
		require.NoError(t, <-h.errs)
	}
	h.Babel.Close()
	h.L3roamd.Close()
	http.DefaultClient.CloseIdleConnections()
}

// Get fetches a report section and decodes it into v.
func (h *NodeHarness) Get(t *testing.T, section string, v any) {
	t.Helper()
	resp, err := http.Get(h.URL + "/" + section)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("GET /%s", section))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func freeAddr(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().String()
}
