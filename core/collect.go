package core

import (
	"context"
	"fmt"
	"time"

	"github.com/encodeous/meshstat/babel"
	"github.com/encodeous/meshstat/perf"
)

// CollectBatch runs one cycle against the routing daemon: it connects, reads
// a single batch and feeds every neighbour and route line to the given
// aggregators, either of which may be nil. The connection is closed before
// CollectBatch returns. A non-nil error means the batch is missing or
// incomplete; whatever was read before the failure stays in the aggregators.
func CollectBatch(ctx context.Context, env *Env, neighbours *babel.NeighbourAggregator, routes *babel.RouteAggregator) error {
	start := time.Now()
	r, err := babel.Dial(ctx, env.Cfg.Babel)
	if err != nil {
		return err
	}
	defer r.Close()
	if r.Version != "" {
		env.Log.Debug("connected to babeld", "version", r.Version)
	}

	n := 0
	for line := range r.Lines() {
		n++
		l := babel.Decode(line)
		switch l.Kind {
		case babel.KindNeighbour:
			if neighbours == nil {
				continue
			}
			rec, ok := babel.NeighbourFromLine(l)
			if !ok {
				perf.MalformedLines.Add(1)
				env.Log.Debug("skipping malformed neighbour", "line", line)
				continue
			}
			if err := neighbours.Add(rec); err != nil {
				env.Log.Debug("neighbour", "error", err)
			}
		case babel.KindRoute:
			if routes == nil {
				continue
			}
			rec, ok := babel.RouteFromLine(l)
			if !ok {
				perf.MalformedLines.Add(1)
				env.Log.Debug("skipping malformed route", "line", line)
				continue
			}
			routes.Add(rec)
		case babel.KindSentinel:
			// Lines never yields the sentinel
		default:
			env.Log.Debug("ignoring line", "line", line)
		}
	}

	perf.CycleLatency.Add(float64(time.Since(start).Microseconds()))
	perf.BatchSize.Add(float64(n))
	perf.CyclesPerMinute.Add(1)
	if neighbours != nil && neighbours.Dropped() > 0 {
		perf.DroppedNeighbour.Add(float64(neighbours.Dropped()))
	}
	if routes != nil {
		if def, ok := routes.Default(); ok {
			env.Log.Debug("default route", "via", def.Via, "ifname", def.Ifname,
				"installed", def.Installed, "metric", def.Metric)
		}
	}
	if err := r.Err(); err != nil {
		perf.ShortBatches.Add(1)
		return fmt.Errorf("batch ended after %d lines without sentinel: %w", n, err)
	}
	return nil
}
