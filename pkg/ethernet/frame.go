package ethernet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the length of an Ethernet II header: two MAC addresses
// plus the EtherType field. Frames carry no 802.1Q tag in this layer.
const HeaderSize = 14

var ErrShortFrame = errors.New("ethernet: frame shorter than header")

type EtherType uint16

const (
	TypeIPv4 EtherType = 0x0800
	TypeARP  EtherType = 0x0806
)

func (t EtherType) String() string {
	switch t {
	case TypeIPv4:
		return "IPv4"
	case TypeARP:
		return "ARP"
	default:
		return fmt.Sprintf("0x%04x", uint16(t))
	}
}

// HardwareAddr is a 48-bit MAC address in wire order.
type HardwareAddr [6]byte

// Broadcast is the all-ones MAC address.
var Broadcast = HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func (a HardwareAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

func (a HardwareAddr) IsZero() bool {
	return a == HardwareAddr{}
}

// ParseHardwareAddr parses a colon-separated MAC address.
func ParseHardwareAddr(s string) (HardwareAddr, error) {
	var a HardwareAddr
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x", &a[0], &a[1], &a[2], &a[3], &a[4], &a[5])
	if err != nil || n != 6 {
		return HardwareAddr{}, fmt.Errorf("ethernet: invalid hardware address %q", s)
	}
	return a, nil
}

// Frame views a raw byte buffer as an Ethernet II frame. The buffer is
// not copied; setters write straight into it.
type Frame struct {
	buf []byte
}

// NewFrame wraps buf as an Ethernet frame. The buffer must be at least
// HeaderSize bytes long.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize {
		return Frame{}, ErrShortFrame
	}
	return Frame{buf: buf}, nil
}

// RawData returns the underlying buffer, header included.
func (f Frame) RawData() []byte { return f.buf }

func (f Frame) Destination() HardwareAddr {
	var a HardwareAddr
	copy(a[:], f.buf[0:6])
	return a
}

func (f Frame) SetDestination(a HardwareAddr) { copy(f.buf[0:6], a[:]) }

func (f Frame) Source() HardwareAddr {
	var a HardwareAddr
	copy(a[:], f.buf[6:12])
	return a
}

func (f Frame) SetSource(a HardwareAddr) { copy(f.buf[6:12], a[:]) }

func (f Frame) EtherType() EtherType {
	return EtherType(binary.BigEndian.Uint16(f.buf[12:14]))
}

func (f Frame) SetEtherType(t EtherType) {
	binary.BigEndian.PutUint16(f.buf[12:14], uint16(t))
}

// Payload returns the bytes following the header.
func (f Frame) Payload() []byte { return f.buf[HeaderSize:] }
