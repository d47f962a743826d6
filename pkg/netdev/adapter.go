package netdev

import (
	crand "crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
)

// RawSender is the driver capability that places a complete link-layer
// frame on the wire. Implemented per driver; outside this package's
// responsibility.
type RawSender interface {
	SendRaw(frame []byte) error
}

const (
	DefaultMTU           = 1500
	DefaultQueueCapacity = 512
)

// Config carries the link parameters a driver hands to New.
type Config struct {
	HardwareAddr  ethernet.HardwareAddr
	MTU           int
	QueueCapacity int
}

// Stats is a point-in-time snapshot of an adapter's cumulative counters.
type Stats struct {
	PacketsIn    uint64
	BytesIn      uint64
	PacketsOut   uint64
	BytesOut     uint64
	RxDrops      uint64
	FragmentsOut uint64
}

type queuedPacket struct {
	data      []byte
	timestamp time.Time
}

// Adapter owns the addressing state, counters, buffer pool and receive
// queue for one network interface. Frame transmission is delegated to
// the driver-supplied RawSender; inbound bytes arrive via DidReceive.
type Adapter struct {
	registry *Registry
	sender   RawSender
	loopback bool

	mu      sync.Mutex
	name    string
	hwaddr  ethernet.HardwareAddr
	addr    ipv4.Addr
	netmask ipv4.Addr
	gateway ipv4.Addr
	mtu     int

	// recvMu guards the receive queue and is taken by both the driver
	// ingress path and consumers, standing in for the interrupt-disable
	// discipline of a hardware receive path.
	recvMu    sync.Mutex
	queue     []queuedPacket
	queueCap  int
	pool      *BufferPool
	onReceive func()
	onDrop    func()

	now   func() time.Time
	ident func() uint16

	packetsIn    atomic.Uint64
	bytesIn      atomic.Uint64
	packetsOut   atomic.Uint64
	bytesOut     atomic.Uint64
	rxDrops      atomic.Uint64
	fragmentsOut atomic.Uint64
}

// New creates an adapter transmitting through sender and registers it
// in reg. The adapter stays registered until Close.
func New(reg *Registry, sender RawSender, cfg Config) *Adapter {
	a := &Adapter{
		registry: reg,
		sender:   sender,
		hwaddr:   cfg.HardwareAddr,
		mtu:      cfg.MTU,
		queueCap: cfg.QueueCapacity,
		pool:     NewBufferPool(),
		now:      time.Now,
		ident:    randomIdent,
	}
	if a.mtu <= 0 {
		a.mtu = DefaultMTU
	}
	if a.queueCap <= 0 {
		a.queueCap = DefaultQueueCapacity
	}
	if reg != nil {
		reg.register(a)
	}
	return a
}

// Close removes the adapter from its registry. The driver owns the
// adapter lifetime; closing twice is a programming error.
func (a *Adapter) Close() {
	if a.registry != nil {
		a.registry.unregister(a)
	}
}

func (a *Adapter) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name
}

// SetInterfaceName derives the interface name from basename plus a
// numeric suffix. Uniqueness across adapters is left to the driver
// subsystem.
func (a *Adapter) SetInterfaceName(basename string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = basename + "0"
}

// SetName assigns the exact interface name, for drivers where the host
// already dictates it.
func (a *Adapter) SetName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
}

func (a *Adapter) HardwareAddr() ethernet.HardwareAddr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hwaddr
}

func (a *Adapter) SetHardwareAddr(addr ethernet.HardwareAddr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hwaddr = addr
}

func (a *Adapter) IPv4Address() ipv4.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

func (a *Adapter) SetIPv4Address(addr ipv4.Addr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.addr = addr
}

func (a *Adapter) IPv4Netmask() ipv4.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.netmask
}

func (a *Adapter) SetIPv4Netmask(mask ipv4.Addr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.netmask = mask
}

func (a *Adapter) IPv4Gateway() ipv4.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gateway
}

func (a *Adapter) SetIPv4Gateway(gw ipv4.Addr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gateway = gw
}

// IPv4Broadcast returns the directed broadcast address for the
// configured address and netmask.
func (a *Adapter) IPv4Broadcast() ipv4.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr.Broadcast(a.netmask)
}

func (a *Adapter) MTU() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mtu
}

func (a *Adapter) SetMTU(mtu int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if mtu > 0 {
		a.mtu = mtu
	}
}

// IsLoopback reports whether this is the loopback adapter used as the
// registry's fallback resolution target.
func (a *Adapter) IsLoopback() bool { return a.loopback }

// SetOnReceive registers a callback invoked synchronously after each
// enqueued inbound packet. The callback must not block and must not
// call DidReceive.
func (a *Adapter) SetOnReceive(fn func()) {
	a.recvMu.Lock()
	defer a.recvMu.Unlock()
	a.onReceive = fn
}

// SetOnDrop registers a callback invoked synchronously for every
// inbound packet discarded because the receive queue was full. Used to
// feed process-wide drop accounting.
func (a *Adapter) SetOnDrop(fn func()) {
	a.recvMu.Lock()
	defer a.recvMu.Unlock()
	a.onDrop = fn
}

// QueueLength reports the number of packets waiting to be dequeued.
func (a *Adapter) QueueLength() int {
	a.recvMu.Lock()
	defer a.recvMu.Unlock()
	return len(a.queue)
}

// Stats returns a snapshot of the adapter's cumulative counters.
func (a *Adapter) Stats() Stats {
	return Stats{
		PacketsIn:    a.packetsIn.Load(),
		BytesIn:      a.bytesIn.Load(),
		PacketsOut:   a.packetsOut.Load(),
		BytesOut:     a.bytesOut.Load(),
		RxDrops:      a.rxDrops.Load(),
		FragmentsOut: a.fragmentsOut.Load(),
	}
}

// randomIdent draws a fragment identification value. Falls back to a
// clock-derived value if the random source is unavailable.
func randomIdent() uint16 {
	var b [2]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint16(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint16(b[:])
}
