package ipv4

import (
	"encoding/binary"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize+8)
	f, err := NewFrame(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.SetVersionAndIHL(4, 5)
	f.SetTotalLength(HeaderSize + 8)
	f.SetID(0xbeef)
	f.SetFragment(true, 185)
	f.SetTTL(64)
	f.SetProtocol(ProtocolUDP)
	f.SetSource(AddrFrom4(192, 168, 1, 1))
	f.SetDestination(AddrFrom4(8, 8, 8, 8))
	f.SetChecksum(f.CalculateChecksum())

	if f.Version() != 4 || f.IHL() != 5 {
		t.Fatalf("unexpected version/ihl: %d/%d", f.Version(), f.IHL())
	}
	if f.HeaderLength() != HeaderSize {
		t.Fatalf("unexpected header length: %d", f.HeaderLength())
	}
	if f.TotalLength() != HeaderSize+8 {
		t.Fatalf("unexpected total length: %d", f.TotalLength())
	}
	if f.ID() != 0xbeef {
		t.Fatalf("unexpected id: 0x%04x", f.ID())
	}
	if !f.MoreFragments() {
		t.Fatalf("expected more-fragments flag")
	}
	if f.FragmentOffset() != 185 {
		t.Fatalf("unexpected fragment offset: %d", f.FragmentOffset())
	}
	if f.TTL() != 64 {
		t.Fatalf("unexpected ttl: %d", f.TTL())
	}
	if f.Protocol() != ProtocolUDP {
		t.Fatalf("unexpected protocol: %s", f.Protocol())
	}
	if f.Source() != AddrFrom4(192, 168, 1, 1) {
		t.Fatalf("unexpected source: %s", f.Source())
	}
	if f.Destination() != AddrFrom4(8, 8, 8, 8) {
		t.Fatalf("unexpected destination: %s", f.Destination())
	}
}

func TestChecksumValidHeaderSumsToAllOnes(t *testing.T) {
	buf := make([]byte, HeaderSize)
	f, _ := NewFrame(buf)
	f.SetVersionAndIHL(4, 5)
	f.SetTotalLength(60)
	f.SetID(1)
	f.SetTTL(64)
	f.SetProtocol(ProtocolTCP)
	f.SetSource(AddrFrom4(10, 0, 0, 1))
	f.SetDestination(AddrFrom4(10, 0, 0, 2))
	f.SetChecksum(f.CalculateChecksum())

	var sum uint32
	for i := 0; i < HeaderSize; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(buf[i:]))
	}
	for (sum >> 16) > 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	if sum != 0xFFFF {
		t.Fatalf("header with stored checksum must sum to 0xFFFF, got 0x%04X", sum)
	}
}

func TestChecksumEvenLength(t *testing.T) {
	data := []byte{0x00, 0x01, 0xF2, 0x03}
	if sum := Checksum(data); sum != 0x0DFB {
		t.Fatalf("unexpected checksum: 0x%04X", sum)
	}
}

func TestChecksumOddLength(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56}
	if sum := Checksum(data); sum == 0 {
		t.Fatalf("unexpected checksum: 0x%04X", sum)
	}
}

func TestSetFragmentClearsPriorBits(t *testing.T) {
	buf := make([]byte, HeaderSize)
	f, _ := NewFrame(buf)
	f.SetFragment(true, 370)
	f.SetFragment(false, 370)
	if f.MoreFragments() {
		t.Fatalf("more-fragments flag must be cleared")
	}
	if f.FragmentOffset() != 370 {
		t.Fatalf("unexpected fragment offset: %d", f.FragmentOffset())
	}
}

func TestNewFrameShortBuffer(t *testing.T) {
	if _, err := NewFrame(make([]byte, HeaderSize-1)); err != ErrShortHeader {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestAddrHelpers(t *testing.T) {
	a, err := ParseAddr("192.168.1.17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != AddrFrom4(192, 168, 1, 17) {
		t.Fatalf("unexpected addr: %s", a)
	}
	if a.String() != "192.168.1.17" {
		t.Fatalf("unexpected string: %s", a)
	}

	if _, err := ParseAddr("::1"); err == nil {
		t.Fatalf("expected error for non-IPv4 address")
	}
	if _, err := ParseAddr("nope"); err == nil {
		t.Fatalf("expected error for garbage")
	}

	if !(Addr{}).IsUnspecified() {
		t.Fatalf("zero addr must be unspecified")
	}
	if !AddrFrom4(127, 0, 0, 1).IsLoopback() {
		t.Fatalf("127.0.0.1 must be loopback")
	}
	if AddrFrom4(128, 0, 0, 1).IsLoopback() {
		t.Fatalf("128.0.0.1 must not be loopback")
	}

	bcast := AddrFrom4(192, 168, 1, 17).Broadcast(AddrFrom4(255, 255, 255, 0))
	if bcast != AddrFrom4(192, 168, 1, 255) {
		t.Fatalf("unexpected broadcast: %s", bcast)
	}
}
