package netdev

import (
	"bytes"
	"testing"

	"netdev-go/pkg/arp"
	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
)

func TestLoopbackDefaults(t *testing.T) {
	reg := NewRegistry()
	lo := NewLoopback(reg)

	if !lo.IsLoopback() {
		t.Fatalf("loopback flag not set")
	}
	if lo.Name() != "loop0" {
		t.Fatalf("unexpected name: %s", lo.Name())
	}
	if lo.MTU() != LoopbackMTU {
		t.Fatalf("unexpected mtu: %d", lo.MTU())
	}
	if lo.IPv4Address() != ipv4.AddrFrom4(127, 0, 0, 1) {
		t.Fatalf("unexpected address: %s", lo.IPv4Address())
	}
}

func TestLoopbackARPRoundTrip(t *testing.T) {
	reg := NewRegistry()
	lo := NewLoopback(reg)

	pkt := arp.NewPacket(arp.OpRequest,
		lo.HardwareAddr(), ipv4.AddrFrom4(127, 0, 0, 1),
		ethernet.HardwareAddr{}, ipv4.AddrFrom4(127, 0, 0, 1))
	if err := lo.SendARP(ethernet.Broadcast, pkt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lo.QueueLength() != 1 {
		t.Fatalf("transmitted frame must loop back, queue=%d", lo.QueueLength())
	}
	buf := make([]byte, ethernet.HeaderSize+arp.PacketSize)
	n, _ := lo.DequeuePacket(buf)
	if n != len(buf) {
		t.Fatalf("unexpected frame size: %d", n)
	}
	eth, _ := ethernet.NewFrame(buf[:n])
	if eth.EtherType() != ethernet.TypeARP {
		t.Fatalf("unexpected ethertype: %s", eth.EtherType())
	}
	if !bytes.Equal(eth.Payload(), pkt[:]) {
		t.Fatalf("looped frame differs from sent packet")
	}
}

func TestLoopbackIPv4RoundTrip(t *testing.T) {
	reg := NewRegistry()
	lo := NewLoopback(reg)

	payload := []byte("ping over loop0")
	err := lo.SendIPv4(ipv4.AddrFrom4(127, 0, 0, 1), lo.HardwareAddr(),
		ipv4.AddrFrom4(127, 0, 0, 1), ipv4.ProtocolICMP, BytesSource(payload), len(payload), 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf := make([]byte, 128)
	n, _ := lo.DequeuePacket(buf)
	if n != ethernet.HeaderSize+ipv4.HeaderSize+len(payload) {
		t.Fatalf("unexpected frame size: %d", n)
	}
	if !bytes.Equal(buf[ethernet.HeaderSize+ipv4.HeaderSize:n], payload) {
		t.Fatalf("looped payload differs")
	}

	st := lo.Stats()
	if st.PacketsOut != 1 || st.PacketsIn != 1 {
		t.Fatalf("unexpected counters: %+v", st)
	}
}
