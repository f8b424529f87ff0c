package sys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/encodeous/meshstat/state"
)

// ClientCount asks the roaming daemon how many clients it currently tracks.
func ClientCount(ctx context.Context, cfg state.L3roamdCfg) (int, error) {
	d := net.Dialer{Timeout: cfg.Timeout}
	conn, err := d.DialContext(ctx, "unix", cfg.Socket)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to l3roamd: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))

	_, err = conn.Write([]byte("get_clients\n"))
	if err != nil {
		return 0, fmt.Errorf("failed to query l3roamd: %w", err)
	}
	var reply struct {
		Clients *int `json:"clients"`
	}
	err = json.NewDecoder(conn).Decode(&reply)
	if err != nil {
		return 0, fmt.Errorf("failed to decode l3roamd reply: %w", err)
	}
	if reply.Clients == nil {
		return 0, errors.New("l3roamd reply has no client count")
	}
	return *reply.Clients, nil
}
