package core

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/encodeous/meshstat/babel"
	"github.com/encodeous/meshstat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectBatch_Dispatch(t *testing.T) {
	env := testEnv(t, newFakeSystem(),
		"add interface wlan0 up true ipv6 fe80::10",
		"add neighbour 1 address fe80::1 if wlan0 reach ffff rxcost 96 txcost 96 cost 96",
		"add route 2 prefix ::/0 from ::/0 installed yes metric 96 via fe80::1 if wlan0",
		"add xroute prefix fdff::/64 from ::/0 metric 0",
		"change neighbour 1 address fe80::1 if wlan0 reach 7fff",
		"ok",
	)
	neigh := babel.NewNeighbourAggregator(env.Sys, nodePrefix)
	routes := &babel.RouteAggregator{}
	require.NoError(t, CollectBatch(context.Background(), env, neigh, routes))

	groups := neigh.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, 1.0, groups[wlan0MAC.String()].Neighbours["fe80::1"].Reachability)
	gw, ok := routes.Gateway()
	require.True(t, ok)
	assert.Equal(t, "fe80::1%wlan0", gw.String())
}

func TestCollectBatch_NilAggregators(t *testing.T) {
	env := testEnv(t, newFakeSystem(),
		"add neighbour address fe80::1 ifname wlan0",
		"add route prefix ::/0 from ::/0 via fe80::1 ifname wlan0",
		"ok",
	)
	assert.NoError(t, CollectBatch(context.Background(), env, nil, nil))
}

func TestCollectBatch_ShortBatch(t *testing.T) {
	env := testEnv(t, newFakeSystem(), "add neighbour address fe80::1 ifname wlan0 cost 5")
	neigh := babel.NewNeighbourAggregator(env.Sys, nodePrefix)
	err := CollectBatch(context.Background(), env, neigh, nil)
	assert.Error(t, err)
	assert.Len(t, neigh.Groups(), 1)
}

func TestCollectBatch_DroppedNeighbour(t *testing.T) {
	env := testEnv(t, newFakeSystem(),
		"add neighbour address fe80::1 ifname wlan9 cost 5",
		"add neighbour address fe80::2 ifname wlan0 cost 5",
		"ok",
	)
	neigh := babel.NewNeighbourAggregator(env.Sys, nodePrefix)
	require.NoError(t, CollectBatch(context.Background(), env, neigh, nil))
	assert.Equal(t, 1, neigh.Dropped())
	assert.Len(t, neigh.Groups()[wlan0MAC.String()].Neighbours, 1)
}

func TestCollectBatch_Unreachable(t *testing.T) {
	env := testEnv(t, newFakeSystem())
	env.Cfg.Babel.Addr = "127.0.0.1:1"
	assert.Error(t, CollectBatch(context.Background(), env, nil, nil))
}

func TestCollectBatch_LogsDaemonDetails(t *testing.T) {
	srv := &mock.BabelServer{
		Greeting:      []string{"BABEL 1.0", "version babeld-1.13.1", "ok"},
		ExpectCommand: true,
		Batch: []string{
			"add route 1 prefix ::/0 from ::/0 installed no metric 256 via fe80::2 if mesh-vpn",
			"add route 2 prefix ::/0 from ::/0 installed yes metric 96 via fe80::1 if wlan0",
			"ok",
		},
	}
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Close)
	cfg := mock.MockCfg(t.TempDir(), srv.Addr(), "")
	cfg.Babel.Greeting = true
	cfg.Babel.Command = "dump"
	var buf bytes.Buffer
	env := NewEnv(cfg, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), newFakeSystem())

	routes := &babel.RouteAggregator{}
	require.NoError(t, CollectBatch(context.Background(), env, nil, routes))

	def, ok := routes.Default()
	require.True(t, ok)
	assert.False(t, def.Installed)
	assert.Equal(t, uint32(256), def.Metric)
	assert.Contains(t, buf.String(), "version=babeld-1.13.1")
	assert.Contains(t, buf.String(), "installed=false metric=256")
}
