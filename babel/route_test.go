package babel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteIsDefault(t *testing.T) {
	assert.True(t, RouteRecord{Prefix: "::/0", From: "::/0", Via: "fe80::1", Ifname: "eth0"}.IsDefault())
	assert.False(t, RouteRecord{Prefix: "::/0", From: "2001:db8::/32"}.IsDefault())
	assert.False(t, RouteRecord{Prefix: "2001:db8::/32", From: "::/0"}.IsDefault())
	// numerically equivalent spellings are not the daemon's encoding
	assert.False(t, RouteRecord{Prefix: "0::/0", From: "::/0"}.IsDefault())
	assert.False(t, RouteRecord{Prefix: "::/0"}.IsDefault())
}

func TestParseRoute(t *testing.T) {
	r, ok := ParseRoute("add route 6e4a30 prefix ::/0 from ::/0 installed yes id 02:ca:ff:fe:00:00:00:01 metric 352 price 96 refmetric 256 via fe80::c24a:ff:fe2d:537a if mesh-vpn")
	assert.True(t, ok)
	assert.Equal(t, RouteRecord{
		Prefix:    "::/0",
		From:      "::/0",
		Via:       "fe80::c24a:ff:fe2d:537a",
		Ifname:    "mesh-vpn",
		Installed: true,
		Metric:    352,
	}, r)
	assert.True(t, r.IsDefault())
}

func TestParseRoute_Rejects(t *testing.T) {
	_, ok := ParseRoute("add route from ::/0 via fe80::1 ifname eth0")
	assert.False(t, ok)
	_, ok = ParseRoute("add neighbour address fe80::1 ifname eth0")
	assert.False(t, ok)
}
