package babel

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// NeighbourRecord is one neighbour as reported by the daemon.
type NeighbourRecord struct {
	LinkLocal    string
	Ifname       string
	RxCost       uint32
	TxCost       uint32
	Cost         uint32
	Reachability float64
}

// ParseNeighbour parses an "add neighbour" line. It reports false for lines of
// another kind, lines missing address or ifname, and lines with unparsable values.
func ParseNeighbour(line string) (NeighbourRecord, bool) {
	return NeighbourFromLine(Decode(line))
}

func NeighbourFromLine(l Line) (NeighbourRecord, bool) {
	if l.Kind != KindNeighbour {
		return NeighbourRecord{}, false
	}
	var n NeighbourRecord
	var ok bool
	if n.LinkLocal, ok = l.field("address"); !ok {
		return NeighbourRecord{}, false
	}
	if n.Ifname, ok = l.field("ifname", "if"); !ok {
		return NeighbourRecord{}, false
	}
	for key, dst := range map[string]*uint32{"rxcost": &n.RxCost, "txcost": &n.TxCost, "cost": &n.Cost} {
		v, present := l.Fields[key]
		if !present {
			continue
		}
		c, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return NeighbourRecord{}, false
		}
		*dst = uint32(c)
	}
	if v, present := l.Fields["reach"]; present {
		r, err := parseReach(v)
		if err != nil {
			return NeighbourRecord{}, false
		}
		n.Reachability = r
	}
	return n, true
}

// parseReach accepts the daemon's 16 bit hello history, printed as exactly four
// hex digits ("fff0") and converted to the share of received hellos, or a
// fraction ("0.95", "1") clamped to [0, 1].
func parseReach(v string) (float64, error) {
	if len(v) == 4 {
		if h, err := strconv.ParseUint(v, 16, 16); err == nil {
			return float64(bits.OnesCount16(uint16(h))) / 16, nil
		}
	}
	r, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(r) {
		return 0, fmt.Errorf("reach is not a number")
	}
	return min(max(r, 0), 1), nil
}
