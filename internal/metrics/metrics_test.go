package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.IncRxPackets()
	m.AddRxBytes(150)
	m.IncTxPackets()
	m.IncTxPackets()
	m.AddTxBytes(300)
	m.IncRxDrops()
	m.IncTxFragments()
	m.IncTxFragments()
	m.IncTxFragments()
	m.IncTxErrors()

	s := m.Snapshot()
	if s.RxPackets != 1 {
		t.Fatalf("expected rx packets 1, got %d", s.RxPackets)
	}
	if s.RxBytes != 150 {
		t.Fatalf("expected rx bytes 150, got %d", s.RxBytes)
	}
	if s.TxPackets != 2 {
		t.Fatalf("expected tx packets 2, got %d", s.TxPackets)
	}
	if s.TxBytes != 300 {
		t.Fatalf("expected tx bytes 300, got %d", s.TxBytes)
	}
	if s.RxDrops != 1 {
		t.Fatalf("expected rx drops 1, got %d", s.RxDrops)
	}
	if s.TxFragments != 3 {
		t.Fatalf("expected tx fragments 3, got %d", s.TxFragments)
	}
	if s.TxErrors != 1 {
		t.Fatalf("expected tx errors 1, got %d", s.TxErrors)
	}
}

func TestAddBytesIgnoresNegative(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.AddRxBytes(-5)
	m.AddTxBytes(-5)
	s := m.Snapshot()
	if s.RxBytes != 0 || s.TxBytes != 0 {
		t.Fatalf("negative byte counts must be ignored: %+v", s)
	}
}
