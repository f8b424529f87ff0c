package core

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// meshCollector implements prometheus.Collector, running a statistics and a
// neighbour cycle on each scrape.
type meshCollector struct {
	env *Env

	neighbourCost         *prometheus.Desc
	neighbourRxCost       *prometheus.Desc
	neighbourTxCost       *prometheus.Desc
	neighbourReachability *prometheus.Desc

	clientsTotal   *prometheus.Desc
	wifiClients    *prometheus.Desc
	trafficPackets *prometheus.Desc
	trafficBytes   *prometheus.Desc
	trafficDropped *prometheus.Desc
	gateway        *prometheus.Desc
}

func newCollector(env *Env) *meshCollector {
	return &meshCollector{
		env: env,
		neighbourCost: prometheus.NewDesc(
			"meshstat_babel_neighbour_cost",
			"Link cost to a babel neighbour.",
			[]string{"ifname", "neighbour"}, nil,
		),
		neighbourRxCost: prometheus.NewDesc(
			"meshstat_babel_neighbour_rxcost",
			"Receive cost advertised for a babel neighbour.",
			[]string{"ifname", "neighbour"}, nil,
		),
		neighbourTxCost: prometheus.NewDesc(
			"meshstat_babel_neighbour_txcost",
			"Transmit cost to a babel neighbour.",
			[]string{"ifname", "neighbour"}, nil,
		),
		neighbourReachability: prometheus.NewDesc(
			"meshstat_babel_neighbour_reachability",
			"Fraction of recent hellos received from a babel neighbour.",
			[]string{"ifname", "neighbour"}, nil,
		),
		clientsTotal: prometheus.NewDesc(
			"meshstat_clients",
			"Clients known to the roaming daemon.",
			nil, nil,
		),
		wifiClients: prometheus.NewDesc(
			"meshstat_wifi_clients",
			"Stations associated with client access points.",
			[]string{"band"}, nil,
		),
		trafficPackets: prometheus.NewDesc(
			"meshstat_traffic_packets_total",
			"Packets on the local node interface.",
			[]string{"direction"}, nil,
		),
		trafficBytes: prometheus.NewDesc(
			"meshstat_traffic_bytes_total",
			"Bytes on the local node interface.",
			[]string{"direction"}, nil,
		),
		trafficDropped: prometheus.NewDesc(
			"meshstat_traffic_dropped_total",
			"Dropped packets on the local node interface.",
			[]string{"direction"}, nil,
		),
		gateway: prometheus.NewDesc(
			"meshstat_gateway_info",
			"Next hop of the default route.",
			[]string{"nexthop"}, nil,
		),
	}
}

func (c *meshCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.neighbourCost
	ch <- c.neighbourRxCost
	ch <- c.neighbourTxCost
	ch <- c.neighbourReachability
	ch <- c.clientsTotal
	ch <- c.wifiClients
	ch <- c.trafficPackets
	ch <- c.trafficBytes
	ch <- c.trafficDropped
	ch <- c.gateway
}

func (c *meshCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.env.Cfg.Babel.ReadTimeout)
	defer cancel()
	c.collectStatistics(ctx, ch)
	c.collectNeighbours(ctx, ch)
}

func (c *meshCollector) collectStatistics(ctx context.Context, ch chan<- prometheus.Metric) {
	stats := Statistics(ctx, c.env)
	if stats.Clients.Total != nil {
		ch <- prometheus.MustNewConstMetric(c.clientsTotal, prometheus.GaugeValue,
			float64(*stats.Clients.Total))
	}
	ch <- prometheus.MustNewConstMetric(c.wifiClients, prometheus.GaugeValue,
		float64(stats.Clients.Wifi24), "2.4")
	ch <- prometheus.MustNewConstMetric(c.wifiClients, prometheus.GaugeValue,
		float64(stats.Clients.Wifi5), "5")

	for dir, ctrs := range map[string]struct{ p, b, d uint64 }{
		"rx": {stats.Traffic.Rx.Packets, stats.Traffic.Rx.Bytes, stats.Traffic.Rx.Dropped},
		"tx": {stats.Traffic.Tx.Packets, stats.Traffic.Tx.Bytes, stats.Traffic.Tx.Dropped},
	} {
		ch <- prometheus.MustNewConstMetric(c.trafficPackets, prometheus.CounterValue, float64(ctrs.p), dir)
		ch <- prometheus.MustNewConstMetric(c.trafficBytes, prometheus.CounterValue, float64(ctrs.b), dir)
		ch <- prometheus.MustNewConstMetric(c.trafficDropped, prometheus.CounterValue, float64(ctrs.d), dir)
	}

	if stats.GatewayNexthop != "" {
		ch <- prometheus.MustNewConstMetric(c.gateway, prometheus.GaugeValue, 1, stats.GatewayNexthop)
	}
}

func (c *meshCollector) collectNeighbours(ctx context.Context, ch chan<- prometheus.Metric) {
	for _, grp := range BabelNeighbours(ctx, c.env) {
		for key, n := range grp.Neighbours {
			ch <- prometheus.MustNewConstMetric(c.neighbourCost, prometheus.GaugeValue,
				float64(n.Cost), grp.Ifname, key)
			ch <- prometheus.MustNewConstMetric(c.neighbourRxCost, prometheus.GaugeValue,
				float64(n.RxCost), grp.Ifname, key)
			ch <- prometheus.MustNewConstMetric(c.neighbourTxCost, prometheus.GaugeValue,
				float64(n.TxCost), grp.Ifname, key)
			ch <- prometheus.MustNewConstMetric(c.neighbourReachability, prometheus.GaugeValue,
				n.Reachability, grp.Ifname, key)
		}
	}
}
