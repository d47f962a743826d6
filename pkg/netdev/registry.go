package netdev

import (
	"sync"

	"netdev-go/pkg/ipv4"
)

// Registry is the set of live adapters, used for address-to-adapter
// resolution. It holds non-owning references: adapters are owned by the
// driver subsystem and enter/leave the registry only on construction
// and Close. Every traversal takes the registry lock.
type Registry struct {
	mu       sync.Mutex
	adapters []*Adapter
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) register(a *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, a)
}

func (r *Registry) unregister(a *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.adapters {
		if reg == a {
			r.adapters = append(r.adapters[:i], r.adapters[i+1:]...)
			return
		}
	}
}

// FindByIPv4 resolves address to an adapter whose configured unicast or
// directed broadcast address matches. Unmatched lookups for 0.0.0.0 or
// 127.0.0.0/8 fall back to the loopback adapter so loopback traffic and
// any-address binds resolve before adapters are configured. Returns nil
// when nothing matches.
func (r *Registry) FindByIPv4(address ipv4.Addr) *Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.adapters {
		if a.IPv4Address() == address || a.IPv4Broadcast() == address {
			return a
		}
	}
	if address.IsUnspecified() || address.IsLoopback() {
		for _, a := range r.adapters {
			if a.loopback {
				return a
			}
		}
	}
	return nil
}

// FindByName returns the first adapter with the given interface name in
// registration order, or nil.
func (r *Registry) FindByName(name string) *Adapter {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// ForEach visits every registered adapter in registration order. The
// visitor must not mutate the registry.
func (r *Registry) ForEach(fn func(*Adapter)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.adapters {
		fn(a)
	}
}

// Len reports the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.adapters)
}
