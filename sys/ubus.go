package sys

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/encodeous/meshstat/state"
)

// MeshInterfaces asks the network configuration service for its interface
// dump and returns the devices of all mesh interfaces in it.
func MeshInterfaces(ctx context.Context, logger *slog.Logger, command []string) ([]string, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("no interface dump command configured")
	}
	out, err := ExecStdout(ctx, logger, command[0], command[1:]...)
	if err != nil {
		return nil, err
	}
	var dump any
	err = json.Unmarshal(out, &dump)
	if err != nil {
		return nil, fmt.Errorf("failed to parse interface dump: %w", err)
	}
	return WalkMeshInterfaces(dump), nil
}

// WalkMeshInterfaces descends through the tables and arrays of a decoded dump.
// A table holding both a "device" and a "proto" string whose value starts
// with the mesh protocol name contributes its device. Every device appears
// once, in the order it was first found.
func WalkMeshInterfaces(tree any) []string {
	devs := make([]string, 0)
	walk(tree, func(device, proto string) {
		if strings.HasPrefix(proto, state.MeshProtoPrefix) && !slices.Contains(devs, device) {
			devs = append(devs, device)
		}
	})
	return devs
}

func walk(node any, visit func(device, proto string)) {
	var device, proto string
	switch n := node.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(n)) {
			switch v := n[k].(type) {
			case string:
				switch k {
				case "device":
					device = v
				case "proto":
					proto = v
				}
			case map[string]any, []any:
				walk(v, visit)
			}
		}
	case []any:
		for _, v := range n {
			walk(v, visit)
		}
	default:
		return
	}
	if device != "" && proto != "" {
		visit(device, proto)
	}
}
