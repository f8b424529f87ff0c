package sys

import (
	"context"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/encodeous/meshstat/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	for ifname, marker := range map[string]string{
		"mesh0":    "wireless",
		"mesh-vpn": "tun_flags",
		"eth0":     "address",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ifname), 0700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ifname, marker), nil, 0600))
	}
	assert.Equal(t, state.ClassWireless, Classify(dir, "mesh0"))
	assert.Equal(t, state.ClassTunnel, Classify(dir, "mesh-vpn"))
	assert.Equal(t, state.ClassOther, Classify(dir, "eth0"))
	assert.Equal(t, state.ClassOther, Classify(dir, "missing"))
}

func TestNodePrefix_Override(t *testing.T) {
	pfx := netip.MustParsePrefix("fdff:182f:da60:abc::/64")
	got, err := NodePrefix(state.SiteCfg{NodePrefix: pfx, SitePath: "/nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, pfx, got)
}

func TestNodePrefix_SiteFile(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "site.json")

	require.NoError(t, os.WriteFile(site, []byte(`{"site_code":"ffx","node_prefix6":"fdff:182f:da60:abc::/64"}`), 0600))
	got, err := NodePrefix(state.SiteCfg{SitePath: site})
	require.NoError(t, err)
	assert.Equal(t, netip.MustParsePrefix("fdff:182f:da60:abc::/64"), got)

	require.NoError(t, os.WriteFile(site, []byte(`{"site_code":"ffx"}`), 0600))
	_, err = NodePrefix(state.SiteCfg{SitePath: site})
	assert.ErrorIs(t, err, ErrNoPrefix)

	require.NoError(t, os.WriteFile(site, []byte(`{"node_prefix6":"fdff::/48"}`), 0600))
	_, err = NodePrefix(state.SiteCfg{SitePath: site})
	assert.ErrorIs(t, err, ErrNoPrefix)

	_, err = NodePrefix(state.SiteCfg{SitePath: filepath.Join(dir, "missing.json")})
	assert.ErrorIs(t, err, ErrNoPrefix)
}

func TestPrimaryMAC(t *testing.T) {
	mac, err := PrimaryMAC(state.SiteCfg{PrimaryMAC: "c0:4a:00:2d:53:7a"})
	require.NoError(t, err)
	assert.Equal(t, "c0:4a:00:2d:53:7a", mac.String())

	file := filepath.Join(t.TempDir(), "primary_mac")
	require.NoError(t, os.WriteFile(file, []byte("02:00:00:00:00:10\n"), 0600))
	mac, err = PrimaryMAC(state.SiteCfg{PrimaryMACPath: file})
	require.NoError(t, err)
	assert.Equal(t, "02:00:00:00:00:10", mac.String())
}

func TestBand(t *testing.T) {
	is24, is5 := Band(2412)
	assert.True(t, is24)
	assert.False(t, is5)
	is24, is5 = Band(5180)
	assert.False(t, is24)
	assert.True(t, is5)
	is24, is5 = Band(2500)
	assert.False(t, is24)
	assert.False(t, is5)
	is24, is5 = Band(6000)
	assert.False(t, is24)
	assert.False(t, is5)
}

func TestHost_BabeldVersion(t *testing.T) {
	h := &Host{Cfg: state.Cfg{VersionCommand: []string{"sh", "-c", "echo babeld-1.13.1 >&2"}}, Log: slog.Default()}
	v, err := h.BabeldVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "babeld-1.13.1", v)

	h.Cfg.VersionCommand = nil
	_, err = h.BabeldVersion(context.Background())
	assert.Error(t, err)
}
