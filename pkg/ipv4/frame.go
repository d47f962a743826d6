package ipv4

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the length of an IPv4 header without options (IHL=5).
const HeaderSize = 20

var ErrShortHeader = errors.New("ipv4: buffer shorter than header")

type Protocol uint8

const (
	ProtocolICMP Protocol = 1
	ProtocolTCP  Protocol = 6
	ProtocolUDP  Protocol = 17
)

func (p Protocol) String() string {
	switch p {
	case ProtocolICMP:
		return "ICMP"
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	default:
		return "OTHER"
	}
}

// Flag bits of the flags+fragment-offset word. The offset occupies the
// low 13 bits and counts 8-byte units.
const (
	flagDontFragment  = 0x4000
	flagMoreFragments = 0x2000
	fragmentOffsetMax = 0x1fff
)

// Frame views a raw byte buffer as an IPv4 packet. Multi-byte fields are
// big endian on the wire; setters write straight into the buffer.
type Frame struct {
	buf []byte
}

// NewFrame wraps buf as an IPv4 packet. The buffer must hold at least a
// 20-byte header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize {
		return Frame{}, ErrShortHeader
	}
	return Frame{buf: buf}, nil
}

func (f Frame) RawData() []byte { return f.buf }

func (f Frame) Version() uint8 { return f.buf[0] >> 4 }
func (f Frame) IHL() uint8     { return f.buf[0] & 0x0f }

// SetVersionAndIHL packs the version and header-length nibbles. Version
// is always 4 here; IHL is in 32-bit words (5 without options).
func (f Frame) SetVersionAndIHL(version, ihl uint8) {
	f.buf[0] = version<<4 | ihl&0x0f
}

// HeaderLength returns the header length in bytes as encoded by IHL.
func (f Frame) HeaderLength() int { return int(f.IHL()) * 4 }

func (f Frame) TotalLength() uint16 {
	return binary.BigEndian.Uint16(f.buf[2:4])
}

func (f Frame) SetTotalLength(n uint16) {
	binary.BigEndian.PutUint16(f.buf[2:4], n)
}

// ID identifies the group of fragments belonging to one datagram.
func (f Frame) ID() uint16 {
	return binary.BigEndian.Uint16(f.buf[4:6])
}

func (f Frame) SetID(id uint16) {
	binary.BigEndian.PutUint16(f.buf[4:6], id)
}

// MoreFragments reports the MF flag.
func (f Frame) MoreFragments() bool {
	return binary.BigEndian.Uint16(f.buf[6:8])&flagMoreFragments != 0
}

// FragmentOffset returns the offset of this fragment in 8-byte units.
func (f Frame) FragmentOffset() uint16 {
	return binary.BigEndian.Uint16(f.buf[6:8]) & fragmentOffsetMax
}

// SetFragment writes the MF flag and the fragment offset (8-byte units)
// in one store, preserving no other flag bits.
func (f Frame) SetFragment(more bool, offsetUnits uint16) {
	v := offsetUnits & fragmentOffsetMax
	if more {
		v |= flagMoreFragments
	}
	binary.BigEndian.PutUint16(f.buf[6:8], v)
}

func (f Frame) TTL() uint8       { return f.buf[8] }
func (f Frame) SetTTL(ttl uint8) { f.buf[8] = ttl }

func (f Frame) Protocol() Protocol     { return Protocol(f.buf[9]) }
func (f Frame) SetProtocol(p Protocol) { f.buf[9] = uint8(p) }

func (f Frame) Checksum() uint16 {
	return binary.BigEndian.Uint16(f.buf[10:12])
}

func (f Frame) SetChecksum(sum uint16) {
	binary.BigEndian.PutUint16(f.buf[10:12], sum)
}

// CalculateChecksum computes the header checksum with the checksum field
// treated as zero, per RFC 791.
func (f Frame) CalculateChecksum() uint16 {
	stored := f.Checksum()
	f.SetChecksum(0)
	sum := Checksum(f.buf[:f.HeaderLength()])
	f.SetChecksum(stored)
	return sum
}

func (f Frame) Source() Addr {
	var a Addr
	copy(a[:], f.buf[12:16])
	return a
}

func (f Frame) SetSource(a Addr) { copy(f.buf[12:16], a[:]) }

func (f Frame) Destination() Addr {
	var a Addr
	copy(a[:], f.buf[16:20])
	return a
}

func (f Frame) SetDestination(a Addr) { copy(f.buf[16:20], a[:]) }

// Payload returns the bytes following the header.
func (f Frame) Payload() []byte { return f.buf[f.HeaderLength():] }

// Checksum computes the ones'-complement sum with end-around carry over
// data, complemented. A header whose stored checksum was produced this
// way sums to 0xFFFF over all of its 16-bit words.
func Checksum(data []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(data); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i:]))
	}
	if len(data)%2 == 1 {
		sum += uint32(data[len(data)-1]) << 8
	}
	for (sum >> 16) > 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}
