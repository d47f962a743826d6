package metrics

import (
	"testing"

	"netdev-go/pkg/arp"
	"netdev-go/pkg/netdev"

	"github.com/prometheus/client_golang/prometheus"
)

func TestAdapterCollectorExportsPerAdapterSeries(t *testing.T) {
	netReg := netdev.NewRegistry()
	loop := netdev.NewLoopback(netReg)
	defer loop.Close()

	packet := arp.NewPacket(arp.OpRequest, loop.HardwareAddr(), loop.IPv4Address(), loop.HardwareAddr(), loop.IPv4Address())
	if err := loop.SendARP(loop.HardwareAddr(), packet); err != nil {
		t.Fatalf("seed traffic: %v", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(NewAdapterCollector(netReg))

	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
		for _, m := range fam.GetMetric() {
			if len(m.GetLabel()) != 1 || m.GetLabel()[0].GetValue() != "loop0" {
				t.Fatalf("%s: expected adapter label loop0, got %+v", fam.GetName(), m.GetLabel())
			}
		}
	}
	for _, name := range []string{
		"netdev_adapter_rx_packets_total",
		"netdev_adapter_tx_packets_total",
		"netdev_adapter_rx_drops_total",
		"netdev_adapter_queue_length",
	} {
		if !found[name] {
			t.Fatalf("missing metric family %s", name)
		}
	}
}
