package sys

import (
	"context"
	"fmt"

	"github.com/encodeous/meshstat/state"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Counters reads the kernel packet counters of one interface.
func Counters(ctx context.Context, ifname string) (state.Traffic, error) {
	stats, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return state.Traffic{}, fmt.Errorf("failed to read interface counters: %w", err)
	}
	for _, s := range stats {
		if s.Name != ifname {
			continue
		}
		return state.Traffic{
			Rx: state.Counters{Packets: s.PacketsRecv, Bytes: s.BytesRecv, Dropped: s.Dropin},
			Tx: state.Counters{Packets: s.PacketsSent, Bytes: s.BytesSent, Dropped: s.Dropout},
		}, nil
	}
	return state.Traffic{}, fmt.Errorf("interface %s not found", ifname)
}
