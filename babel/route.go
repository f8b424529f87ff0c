package babel

import "strconv"

// DefaultPrefix is the daemon's textual encoding of the unspecified IPv6 prefix.
const DefaultPrefix = "::/0"

// RouteRecord is one route table entry as reported by the daemon.
type RouteRecord struct {
	Prefix    string
	From      string
	Via       string
	Ifname    string
	Installed bool
	Metric    uint32
}

// IsDefault reports whether the route is the default gateway route. The check
// is a literal comparison against the daemon's own encoding on both prefix and
// source prefix; a route matching only one of them is not the default route.
func (r RouteRecord) IsDefault() bool {
	return r.Prefix == DefaultPrefix && r.From == DefaultPrefix
}

// ParseRoute parses an "add route" line. It reports false for lines of another
// kind and lines without a prefix.
func ParseRoute(line string) (RouteRecord, bool) {
	return RouteFromLine(Decode(line))
}

func RouteFromLine(l Line) (RouteRecord, bool) {
	if l.Kind != KindRoute {
		return RouteRecord{}, false
	}
	var r RouteRecord
	var ok bool
	if r.Prefix, ok = l.field("prefix"); !ok {
		return RouteRecord{}, false
	}
	r.From, _ = l.field("from")
	r.Via, _ = l.field("via")
	r.Ifname, _ = l.field("ifname", "if")
	r.Installed = l.Fields["installed"] == "yes"
	if v, present := l.Fields["metric"]; present {
		m, err := strconv.ParseUint(v, 10, 32)
		if err == nil {
			r.Metric = uint32(m)
		}
	}
	return r, true
}
