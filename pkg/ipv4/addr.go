package ipv4

import (
	"fmt"
	"net/netip"
)

// Addr is an IPv4 address in wire order.
type Addr [4]byte

func AddrFrom4(a, b, c, d byte) Addr { return Addr{a, b, c, d} }

// ParseAddr parses dotted-decimal notation.
func ParseAddr(s string) (Addr, error) {
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is4() {
		return Addr{}, fmt.Errorf("ipv4: invalid address %q", s)
	}
	return Addr(a.As4()), nil
}

func (a Addr) String() string {
	return netip.AddrFrom4(a).String()
}

// IsUnspecified reports whether a is 0.0.0.0.
func (a Addr) IsUnspecified() bool { return a == Addr{} }

// IsLoopback reports whether a is within 127.0.0.0/8.
func (a Addr) IsLoopback() bool { return a[0] == 127 }

// Broadcast returns the directed broadcast address for a under mask.
func (a Addr) Broadcast(mask Addr) Addr {
	var b Addr
	for i := range a {
		b[i] = a[i] | ^mask[i]
	}
	return b
}
