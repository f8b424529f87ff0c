// Package babel reads and interprets the line-oriented control protocol of the
// babel routing daemon.
package babel

import "strings"

// Sentinel terminates every batch the daemon writes.
const Sentinel = "ok"

type Kind int

const (
	KindUnknown Kind = iota
	KindNeighbour
	KindRoute
	KindSentinel
)

func (k Kind) String() string {
	switch k {
	case KindNeighbour:
		return "neighbour"
	case KindRoute:
		return "route"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Line is a decoded control protocol line: "add <object> [id] key value key value ...".
type Line struct {
	Kind   Kind
	ID     string            // object id assigned by the daemon, may be empty
	Fields map[string]string // later duplicates of a key replace earlier ones
}

// Decode classifies one line and splits its key/value pairs. It never fails;
// anything it does not recognise is KindUnknown.
func Decode(line string) Line {
	line = strings.TrimSpace(line)
	if line == Sentinel {
		return Line{Kind: KindSentinel}
	}
	tok := strings.Fields(line)
	if len(tok) < 2 || tok[0] != "add" {
		return Line{Kind: KindUnknown}
	}
	var l Line
	switch tok[1] {
	case "neighbour":
		l.Kind = KindNeighbour
	case "route":
		l.Kind = KindRoute
	default:
		return Line{Kind: KindUnknown}
	}
	rest := tok[2:]
	if hasID(rest) {
		l.ID = rest[0]
		rest = rest[1:]
	}
	l.Fields = make(map[string]string, len(rest)/2)
	// a trailing token without a value is ignored
	for i := 0; i+1 < len(rest); i += 2 {
		l.Fields[rest[i]] = rest[i+1]
	}
	return l
}

// keys the daemon writes for neighbours and routes.
var knownKeys = map[string]struct{}{
	"address": {}, "if": {}, "ifname": {}, "reach": {}, "ureach": {},
	"rxcost": {}, "txcost": {}, "rtt": {}, "rttcost": {}, "cost": {},
	"prefix": {}, "from": {}, "installed": {}, "id": {}, "metric": {},
	"refmetric": {}, "via": {},
}

// hasID reports whether the first token after the object is the daemon's
// object id rather than a key.
func hasID(rest []string) bool {
	if len(rest) == 0 {
		return false
	}
	if _, ok := knownKeys[rest[0]]; ok {
		return false
	}
	if len(rest)%2 == 1 {
		return true
	}
	_, ok := knownKeys[rest[1]]
	return ok
}

// field returns the first present value among keys.
func (l Line) field(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := l.Fields[k]; ok {
			return v, true
		}
	}
	return "", false
}
