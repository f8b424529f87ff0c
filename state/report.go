package state

// NodeInfo is the nodeinfo report section.
type NodeInfo struct {
	Network  NodeNetwork `json:"network"`
	Software Software    `json:"software"`
}

type NodeNetwork struct {
	Addresses []string `json:"addresses"`
	Mesh      Mesh     `json:"mesh"`
}

type Mesh struct {
	Babel BabelMesh `json:"babel"`
}

type BabelMesh struct {
	// Interfaces is nil when the network configuration service could not be queried.
	Interfaces *MeshInterfaces `json:"interfaces"`
}

// MeshInterfaces lists mesh interface hardware addresses by interface class.
type MeshInterfaces struct {
	Wireless []string `json:"wireless"`
	Tunnel   []string `json:"tunnel"`
	Other    []string `json:"other"`
}

type Software struct {
	Babeld BabeldSoftware `json:"babeld"`
}

type BabeldSoftware struct {
	Version string `json:"version,omitempty"`
}

// Statistics is the statistics report section.
type Statistics struct {
	Clients        Clients `json:"clients"`
	Traffic        Traffic `json:"traffic"`
	GatewayNexthop string  `json:"gateway_nexthop,omitempty"`
}

type Clients struct {
	Total  *int `json:"total,omitempty"` // nil when the roaming daemon did not answer
	Wifi   int  `json:"wifi"`
	Wifi24 int  `json:"wifi24"`
	Wifi5  int  `json:"wifi5"`
}

type Traffic struct {
	Rx Counters `json:"rx"`
	Tx Counters `json:"tx"`
}

type Counters struct {
	Packets uint64 `json:"packets"`
	Bytes   uint64 `json:"bytes"`
	Dropped uint64 `json:"dropped"`
}

// Neighbours is the neighbours report section.
type Neighbours struct {
	// Babel maps the owning interface's hardware address to its neighbour group.
	Babel map[string]*InterfaceNeighbourGroup `json:"babel"`
	// Wifi maps a mesh interface's hardware address to its associated stations.
	Wifi map[string]WifiInterface `json:"wifi"`
}

type InterfaceNeighbourGroup struct {
	Ifname string `json:"ifname"`
	// Neighbours is keyed by the neighbour's hardware address, or by its
	// link-local address when no hardware address can be derived from it.
	Neighbours map[string]NeighbourView `json:"neighbours"`
}

type NeighbourView struct {
	Address      string  `json:"address,omitempty"` // mesh address, omitted without a node prefix
	LinkLocal    string  `json:"linklocal"`
	Protocol     string  `json:"protocol"`
	Ifname       string  `json:"ifname"`
	RxCost       uint32  `json:"rxcost"`
	TxCost       uint32  `json:"txcost"`
	Cost         uint32  `json:"cost"`
	Reachability float64 `json:"reachability"`
}

type WifiInterface struct {
	Neighbours map[string]WifiNeighbour `json:"neighbours,omitempty"`
}

type WifiNeighbour struct {
	Signal   int   `json:"signal"`
	Noise    int   `json:"noise"`
	Inactive int64 `json:"inactive"` // milliseconds
}

// InterfaceClass is the kind of link a mesh interface runs over.
type InterfaceClass int

const (
	ClassOther InterfaceClass = iota
	ClassWireless
	ClassTunnel
)

func (c InterfaceClass) String() string {
	switch c {
	case ClassWireless:
		return "wireless"
	case ClassTunnel:
		return "tunnel"
	default:
		return "other"
	}
}
