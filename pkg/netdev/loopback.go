package netdev

import "netdev-go/pkg/ipv4"

var (
	ipv4Loopback     = ipv4.AddrFrom4(127, 0, 0, 1)
	ipv4LoopbackMask = ipv4.AddrFrom4(255, 0, 0, 0)
)

// loopbackSender feeds transmitted frames straight back into the owning
// adapter's receive path.
type loopbackSender struct {
	adapter *Adapter
}

func (s loopbackSender) SendRaw(frame []byte) error {
	s.adapter.DidReceive(frame)
	return nil
}

// LoopbackMTU is deliberately large: loopback frames never touch a
// physical link, so fragmentation is pointless below this size.
const LoopbackMTU = 65536

// NewLoopback creates the loopback adapter, named loop0 and addressed
// 127.0.0.1/8. The registry resolves unmatched 0.0.0.0 and 127/8
// lookups to it.
func NewLoopback(reg *Registry) *Adapter {
	a := New(reg, nil, Config{
		MTU: LoopbackMTU,
	})
	a.loopback = true
	a.sender = loopbackSender{adapter: a}
	a.SetInterfaceName("loop")
	a.SetIPv4Address(ipv4Loopback)
	a.SetIPv4Netmask(ipv4LoopbackMask)
	return a
}
