package netdev

import "sync"

// BufferPool is a free list of receive buffers. Buffers cycle between
// the free list and the receive queue so steady-state ingress does not
// allocate per packet. A buffer is either in the free list or owned by
// exactly one queued packet, never both.
type BufferPool struct {
	mu   sync.Mutex
	free [][]byte
}

func NewBufferPool() *BufferPool {
	return &BufferPool{}
}

// Acquire returns a buffer of exactly size bytes. The first free buffer
// with sufficient capacity is reused, re-sliced to size so bytes of a
// longer prior packet never leak; otherwise a fresh buffer is allocated.
func (p *BufferPool) Acquire(size int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, buf := range p.free {
		if cap(buf) >= size {
			p.free = append(p.free[:i], p.free[i+1:]...)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Release returns a buffer to the free list for reuse.
func (p *BufferPool) Release(buf []byte) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, buf)
}

// FreeCount reports the number of buffers currently in the free list.
func (p *BufferPool) FreeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
