package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"netdev-go/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates process-wide ingress/egress counters across all
// adapters. Atomic shadow counts back Snapshot so the remote-write path
// and the API never scrape the prometheus registry.
type Metrics struct {
	RxPacketsTotal   prometheus.Counter
	RxBytesTotal     prometheus.Counter
	TxPacketsTotal   prometheus.Counter
	TxBytesTotal     prometheus.Counter
	RxDropsTotal     prometheus.Counter
	TxFragmentsTotal prometheus.Counter
	TxErrorsTotal    prometheus.Counter

	rxPackets   atomic.Uint64
	rxBytes     atomic.Uint64
	txPackets   atomic.Uint64
	txBytes     atomic.Uint64
	rxDrops     atomic.Uint64
	txFragments atomic.Uint64
	txErrors    atomic.Uint64
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RxPacketsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_rx_packets_total",
			Help: "Total number of packets received across all adapters",
		}),
		RxBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_rx_bytes_total",
			Help: "Total number of bytes received across all adapters",
		}),
		TxPacketsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_tx_packets_total",
			Help: "Total number of frames transmitted across all adapters",
		}),
		TxBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_tx_bytes_total",
			Help: "Total number of bytes transmitted across all adapters",
		}),
		RxDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_rx_drops_total",
			Help: "Inbound packets dropped because a receive queue was full",
		}),
		TxFragmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_tx_fragments_total",
			Help: "IPv4 fragments emitted by oversized sends",
		}),
		TxErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netdev_tx_errors_total",
			Help: "Frame transmissions rejected by the driver",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.RxPacketsTotal,
		m.RxBytesTotal,
		m.TxPacketsTotal,
		m.TxBytesTotal,
		m.RxDropsTotal,
		m.TxFragmentsTotal,
		m.TxErrorsTotal,
	)
	return m
}

func (m *Metrics) IncRxPackets() {
	m.rxPackets.Add(1)
	m.RxPacketsTotal.Inc()
}

func (m *Metrics) AddRxBytes(n int) {
	if n < 0 {
		return
	}
	m.rxBytes.Add(uint64(n))
	m.RxBytesTotal.Add(float64(n))
}

func (m *Metrics) IncTxPackets() {
	m.txPackets.Add(1)
	m.TxPacketsTotal.Inc()
}

func (m *Metrics) AddTxBytes(n int) {
	if n < 0 {
		return
	}
	m.txBytes.Add(uint64(n))
	m.TxBytesTotal.Add(float64(n))
}

func (m *Metrics) IncRxDrops() {
	m.rxDrops.Add(1)
	m.RxDropsTotal.Inc()
}

func (m *Metrics) IncTxFragments() {
	m.txFragments.Add(1)
	m.TxFragmentsTotal.Inc()
}

func (m *Metrics) IncTxErrors() {
	m.txErrors.Add(1)
	m.TxErrorsTotal.Inc()
}

type Snapshot struct {
	RxPackets   uint64
	RxBytes     uint64
	TxPackets   uint64
	TxBytes     uint64
	RxDrops     uint64
	TxFragments uint64
	TxErrors    uint64
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RxPackets:   m.rxPackets.Load(),
		RxBytes:     m.rxBytes.Load(),
		TxPackets:   m.txPackets.Load(),
		TxBytes:     m.txBytes.Load(),
		RxDrops:     m.rxDrops.Load(),
		TxFragments: m.txFragments.Load(),
		TxErrors:    m.txErrors.Load(),
	}
}

func StartServer(ctx context.Context, cfg config.MetricsConfig) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
