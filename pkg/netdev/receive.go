package netdev

import "time"

// DidReceive hands inbound link-layer bytes to the adapter. It is
// called from the driver's receive path and never blocks: when the
// queue is at capacity the payload is dropped, the drop counter
// incremented and the drop callback invoked. The notification
// callback, if registered, runs synchronously after the packet is
// queued.
func (a *Adapter) DidReceive(payload []byte) {
	a.packetsIn.Add(1)
	a.bytesIn.Add(uint64(len(payload)))

	a.recvMu.Lock()
	if len(a.queue) >= a.queueCap {
		fn := a.onDrop
		a.recvMu.Unlock()
		a.rxDrops.Add(1)
		if fn != nil {
			fn()
		}
		return
	}

	buf := a.pool.Acquire(len(payload))
	copy(buf, payload)
	a.queue = append(a.queue, queuedPacket{data: buf, timestamp: a.now()})
	fn := a.onReceive
	a.recvMu.Unlock()

	if fn != nil {
		fn()
	}
}

// DequeuePacket pops the oldest queued packet into buf, returning the
// packet length and its arrival timestamp. An empty queue returns zero.
// A buf smaller than the packet violates the caller contract and
// panics; size the buffer to the adapter MTU plus the Ethernet header.
// The packet's buffer is recycled into the pool before returning.
func (a *Adapter) DequeuePacket(buf []byte) (int, time.Time) {
	a.recvMu.Lock()
	defer a.recvMu.Unlock()

	if len(a.queue) == 0 {
		return 0, time.Time{}
	}
	pkt := a.queue[0]
	a.queue = a.queue[1:]

	if len(pkt.data) > len(buf) {
		panic("netdev: dequeue buffer smaller than queued packet")
	}
	n := copy(buf, pkt.data)
	a.pool.Release(pkt.data)
	return n, pkt.timestamp
}
