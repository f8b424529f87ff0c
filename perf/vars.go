package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	CycleLatency     = metric.NewHistogram("1m1s")
	BatchSize        = metric.NewHistogram("10m10s")
	CyclesPerMinute  = metric.NewCounter("10m1m")
	ShortBatches     = metric.NewCounter("10m1m")
	MalformedLines   = metric.NewCounter("10m1m")
	DroppedNeighbour = metric.NewCounter("10m1m")
)

// Handler serves the runtime metrics as an html dashboard.
func Handler() http.Handler {
	return metric.Handler(metric.Exposed)
}

func init() {
	expvar.Publish("meshstat:CycleLatency (µs)", CycleLatency)
	expvar.Publish("meshstat:BatchSize", BatchSize)
	expvar.Publish("meshstat:Cycles/m", CyclesPerMinute)
	expvar.Publish("meshstat:ShortBatches/m", ShortBatches)
	expvar.Publish("meshstat:MalformedLines/m", MalformedLines)
	expvar.Publish("meshstat:DroppedNeighbours/m", DroppedNeighbour)
}
