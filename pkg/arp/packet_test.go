package arp

import (
	"testing"

	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
)

func TestNewPacketFields(t *testing.T) {
	senderHW := ethernet.HardwareAddr{0x52, 0x54, 0x00, 0x01, 0x02, 0x03}
	targetHW := ethernet.HardwareAddr{}
	senderIP := ipv4.AddrFrom4(10, 0, 0, 1)
	targetIP := ipv4.AddrFrom4(10, 0, 0, 2)

	p := NewPacket(OpRequest, senderHW, senderIP, targetHW, targetIP)

	if p.HardwareType() != HardwareTypeEthernet {
		t.Fatalf("unexpected hardware type: %d", p.HardwareType())
	}
	if p.ProtocolType() != ethernet.TypeIPv4 {
		t.Fatalf("unexpected protocol type: %s", p.ProtocolType())
	}
	if p[4] != 6 || p[5] != 4 {
		t.Fatalf("unexpected address lengths: %d/%d", p[4], p[5])
	}
	if p.Operation() != OpRequest {
		t.Fatalf("unexpected operation: %d", p.Operation())
	}
	if p.SenderHardwareAddr() != senderHW {
		t.Fatalf("unexpected sender hw: %s", p.SenderHardwareAddr())
	}
	if p.SenderProtocolAddr() != senderIP {
		t.Fatalf("unexpected sender ip: %s", p.SenderProtocolAddr())
	}
	if p.TargetHardwareAddr() != targetHW {
		t.Fatalf("unexpected target hw: %s", p.TargetHardwareAddr())
	}
	if p.TargetProtocolAddr() != targetIP {
		t.Fatalf("unexpected target ip: %s", p.TargetProtocolAddr())
	}
}

func TestPacketWireLayout(t *testing.T) {
	p := NewPacket(OpReply,
		ethernet.HardwareAddr{1, 2, 3, 4, 5, 6}, ipv4.AddrFrom4(192, 168, 0, 1),
		ethernet.HardwareAddr{7, 8, 9, 10, 11, 12}, ipv4.AddrFrom4(192, 168, 0, 2))

	if p[0] != 0x00 || p[1] != 0x01 {
		t.Fatalf("hardware type not big endian: %v", p[:2])
	}
	if p[6] != 0x00 || p[7] != 0x02 {
		t.Fatalf("operation not big endian: %v", p[6:8])
	}
	if p[8] != 1 || p[13] != 6 {
		t.Fatalf("sender hw misplaced: %v", p[8:14])
	}
	if p[24] != 192 || p[27] != 2 {
		t.Fatalf("target ip misplaced: %v", p[24:28])
	}
}
