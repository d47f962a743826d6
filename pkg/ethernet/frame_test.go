package ethernet

import (
	"bytes"
	"testing"
)

func TestFrameHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize+4)
	f, err := NewFrame(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := HardwareAddr{0x52, 0x54, 0x00, 0x12, 0x34, 0x56}
	dst := HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	f.SetSource(src)
	f.SetDestination(dst)
	f.SetEtherType(TypeARP)
	copy(f.Payload(), []byte{1, 2, 3, 4})

	if f.Source() != src {
		t.Fatalf("unexpected source: %s", f.Source())
	}
	if f.Destination() != dst {
		t.Fatalf("unexpected destination: %s", f.Destination())
	}
	if f.EtherType() != TypeARP {
		t.Fatalf("unexpected ethertype: %s", f.EtherType())
	}
	if !bytes.Equal(f.Payload(), []byte{1, 2, 3, 4}) {
		t.Fatalf("unexpected payload: %v", f.Payload())
	}
	if !bytes.Equal(buf[12:14], []byte{0x08, 0x06}) {
		t.Fatalf("ethertype not big endian on the wire: %v", buf[12:14])
	}
}

func TestNewFrameShortBuffer(t *testing.T) {
	if _, err := NewFrame(make([]byte, HeaderSize-1)); err != ErrShortFrame {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
}

func TestParseHardwareAddr(t *testing.T) {
	a, err := ParseHardwareAddr("52:54:00:ab:cd:ef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := HardwareAddr{0x52, 0x54, 0x00, 0xab, 0xcd, 0xef}
	if a != want {
		t.Fatalf("expected %s, got %s", want, a)
	}
	if a.String() != "52:54:00:ab:cd:ef" {
		t.Fatalf("unexpected string: %s", a.String())
	}
	if _, err := ParseHardwareAddr("not-a-mac"); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}

func TestBroadcastAndZero(t *testing.T) {
	if Broadcast.IsZero() {
		t.Fatalf("broadcast must not be zero")
	}
	var zero HardwareAddr
	if !zero.IsZero() {
		t.Fatalf("zero value must report zero")
	}
}
