package metrics

import (
	"netdev-go/pkg/netdev"

	"github.com/prometheus/client_golang/prometheus"
)

// AdapterCollector exposes per-adapter counter series, labeled by
// interface name, by walking the adapter registry at scrape time.
type AdapterCollector struct {
	registry *netdev.Registry

	rxPackets   *prometheus.Desc
	rxBytes     *prometheus.Desc
	txPackets   *prometheus.Desc
	txBytes     *prometheus.Desc
	rxDrops     *prometheus.Desc
	txFragments *prometheus.Desc
	queueLength *prometheus.Desc
}

func NewAdapterCollector(reg *netdev.Registry) *AdapterCollector {
	labels := []string{"adapter"}
	return &AdapterCollector{
		registry: reg,
		rxPackets: prometheus.NewDesc("netdev_adapter_rx_packets_total",
			"Packets received by the adapter", labels, nil),
		rxBytes: prometheus.NewDesc("netdev_adapter_rx_bytes_total",
			"Bytes received by the adapter", labels, nil),
		txPackets: prometheus.NewDesc("netdev_adapter_tx_packets_total",
			"Frames transmitted by the adapter", labels, nil),
		txBytes: prometheus.NewDesc("netdev_adapter_tx_bytes_total",
			"Bytes transmitted by the adapter", labels, nil),
		rxDrops: prometheus.NewDesc("netdev_adapter_rx_drops_total",
			"Inbound packets dropped by the adapter's full receive queue", labels, nil),
		txFragments: prometheus.NewDesc("netdev_adapter_tx_fragments_total",
			"IPv4 fragments emitted by the adapter", labels, nil),
		queueLength: prometheus.NewDesc("netdev_adapter_queue_length",
			"Packets currently waiting in the receive queue", labels, nil),
	}
}

func (c *AdapterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rxPackets
	ch <- c.rxBytes
	ch <- c.txPackets
	ch <- c.txBytes
	ch <- c.rxDrops
	ch <- c.txFragments
	ch <- c.queueLength
}

func (c *AdapterCollector) Collect(ch chan<- prometheus.Metric) {
	c.registry.ForEach(func(a *netdev.Adapter) {
		name := a.Name()
		st := a.Stats()
		ch <- prometheus.MustNewConstMetric(c.rxPackets, prometheus.CounterValue, float64(st.PacketsIn), name)
		ch <- prometheus.MustNewConstMetric(c.rxBytes, prometheus.CounterValue, float64(st.BytesIn), name)
		ch <- prometheus.MustNewConstMetric(c.txPackets, prometheus.CounterValue, float64(st.PacketsOut), name)
		ch <- prometheus.MustNewConstMetric(c.txBytes, prometheus.CounterValue, float64(st.BytesOut), name)
		ch <- prometheus.MustNewConstMetric(c.rxDrops, prometheus.CounterValue, float64(st.RxDrops), name)
		ch <- prometheus.MustNewConstMetric(c.txFragments, prometheus.CounterValue, float64(st.FragmentsOut), name)
		ch <- prometheus.MustNewConstMetric(c.queueLength, prometheus.GaugeValue, float64(a.QueueLength()), name)
	})
}
