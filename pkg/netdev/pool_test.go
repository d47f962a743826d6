package netdev

import "testing"

func TestPoolAcquireFreshAndReuse(t *testing.T) {
	p := NewBufferPool()

	buf := p.Acquire(64)
	if len(buf) != 64 {
		t.Fatalf("unexpected length: %d", len(buf))
	}
	if p.FreeCount() != 0 {
		t.Fatalf("expected empty free list, got %d", p.FreeCount())
	}

	p.Release(buf)
	if p.FreeCount() != 1 {
		t.Fatalf("expected 1 free buffer, got %d", p.FreeCount())
	}

	again := p.Acquire(32)
	if len(again) != 32 {
		t.Fatalf("expected re-sliced length 32, got %d", len(again))
	}
	if cap(again) < 64 {
		t.Fatalf("expected recycled buffer, got fresh one with cap %d", cap(again))
	}
	if p.FreeCount() != 0 {
		t.Fatalf("expected empty free list after reuse, got %d", p.FreeCount())
	}
}

func TestPoolAcquireSkipsTooSmallBuffers(t *testing.T) {
	p := NewBufferPool()
	p.Release(make([]byte, 16))

	buf := p.Acquire(128)
	if len(buf) != 128 {
		t.Fatalf("unexpected length: %d", len(buf))
	}
	if p.FreeCount() != 1 {
		t.Fatalf("small buffer must stay in the free list, got %d", p.FreeCount())
	}
}

func TestPoolReleaseNil(t *testing.T) {
	p := NewBufferPool()
	p.Release(nil)
	if p.FreeCount() != 0 {
		t.Fatalf("nil release must be ignored")
	}
}
