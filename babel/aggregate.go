package babel

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/encodeous/meshstat/meshaddr"
	"github.com/encodeous/meshstat/state"
)

// MACResolver maps a kernel interface name to the interface's hardware address.
type MACResolver interface {
	InterfaceMAC(ifname string) (net.HardwareAddr, error)
}

type MACResolverFunc func(ifname string) (net.HardwareAddr, error)

func (f MACResolverFunc) InterfaceMAC(ifname string) (net.HardwareAddr, error) {
	return f(ifname)
}

// NeighbourAggregator groups the neighbours of one batch by the hardware
// address of the interface they were seen on.
type NeighbourAggregator struct {
	resolver MACResolver
	prefix   netip.Prefix
	groups   map[string]*state.InterfaceNeighbourGroup
	dropped  int
}

// NewNeighbourAggregator creates an empty aggregator. An invalid prefix
// disables mesh address synthesis; neighbours are still reported.
func NewNeighbourAggregator(resolver MACResolver, prefix netip.Prefix) *NeighbourAggregator {
	return &NeighbourAggregator{
		resolver: resolver,
		prefix:   prefix,
		groups:   make(map[string]*state.InterfaceNeighbourGroup),
	}
}

// Add merges one record into its interface group, replacing any earlier
// record for the same neighbour. The returned error explains why a record
// was dropped or only partially reported; it never invalidates the batch.
func (a *NeighbourAggregator) Add(rec NeighbourRecord) error {
	owner, err := a.resolver.InterfaceMAC(rec.Ifname)
	if err != nil {
		a.dropped++
		return fmt.Errorf("dropped neighbour %s: no hardware address for %s: %w", rec.LinkLocal, rec.Ifname, err)
	}

	view := state.NeighbourView{
		LinkLocal:    rec.LinkLocal,
		Protocol:     state.ProtocolBabel,
		Ifname:       rec.Ifname,
		RxCost:       rec.RxCost,
		TxCost:       rec.TxCost,
		Cost:         rec.Cost,
		Reachability: rec.Reachability,
	}

	key := rec.LinkLocal
	mac, macErr := meshaddr.ToMAC(rec.LinkLocal)
	if macErr == nil {
		key = mac.String()
		if a.prefix.IsValid() {
			addr, err := meshaddr.Synthesize(mac, a.prefix)
			if err == nil {
				view.Address = addr.String()
			}
		}
	}

	grp, ok := a.groups[owner.String()]
	if !ok {
		grp = &state.InterfaceNeighbourGroup{
			Ifname:     rec.Ifname,
			Neighbours: make(map[string]state.NeighbourView),
		}
		a.groups[owner.String()] = grp
	}
	grp.Neighbours[key] = view

	if macErr != nil {
		return fmt.Errorf("neighbour %s has no mesh address: %w", rec.LinkLocal, macErr)
	}
	return nil
}

// Groups returns the aggregated groups keyed by owning interface hardware address.
func (a *NeighbourAggregator) Groups() map[string]*state.InterfaceNeighbourGroup {
	return a.groups
}

// Dropped is the number of records that could not be placed in any group.
func (a *NeighbourAggregator) Dropped() int {
	return a.dropped
}

// NextHop is the gateway of the default route.
type NextHop struct {
	Via    string
	Ifname string
}

func (n NextHop) String() string {
	return fmt.Sprintf("%s%%%s", n.Via, n.Ifname)
}

// RouteAggregator remembers the first default route of a batch. The daemon
// lists the active route first, so later default routes are ignored.
type RouteAggregator struct {
	def   RouteRecord
	found bool
}

func (a *RouteAggregator) Add(rec RouteRecord) {
	if a.found || !rec.IsDefault() {
		return
	}
	a.def = rec
	a.found = true
}

// Default returns the chosen default route, or false if the batch had none.
func (a *RouteAggregator) Default() (RouteRecord, bool) {
	return a.def, a.found
}

// Gateway returns the default route's next hop, or false if the batch had none.
func (a *RouteAggregator) Gateway() (NextHop, bool) {
	return NextHop{Via: a.def.Via, Ifname: a.def.Ifname}, a.found
}
