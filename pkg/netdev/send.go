package netdev

import (
	"fmt"

	"netdev-go/pkg/arp"
	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
)

// SendARP frames packet into a single Ethernet frame and transmits it.
// The ARP payload is copied verbatim; this layer does not interpret it.
func (a *Adapter) SendARP(destination ethernet.HardwareAddr, packet arp.Packet) error {
	frame := make([]byte, ethernet.HeaderSize+arp.PacketSize)
	eth, _ := ethernet.NewFrame(frame)
	eth.SetSource(a.HardwareAddr())
	eth.SetDestination(destination)
	eth.SetEtherType(ethernet.TypeARP)
	copy(eth.Payload(), packet[:])

	a.packetsOut.Add(1)
	a.bytesOut.Add(uint64(len(frame)))
	return a.sender.SendRaw(frame)
}

// SendIPv4 builds one Ethernet+IPv4 frame for the payload and transmits
// it, delegating to the fragmentation path when header plus payload
// exceeds the adapter MTU. A payload read fault aborts the send before
// transmission and is returned to the caller.
func (a *Adapter) SendIPv4(source ipv4.Addr, destinationMAC ethernet.HardwareAddr, destination ipv4.Addr, protocol ipv4.Protocol, payload PayloadSource, payloadSize int, ttl uint8) error {
	if ipv4.HeaderSize+payloadSize > a.MTU() {
		return a.sendIPv4Fragmented(source, destinationMAC, destination, protocol, payload, payloadSize, ttl)
	}

	frameSize := ethernet.HeaderSize + ipv4.HeaderSize + payloadSize
	frame := make([]byte, frameSize)
	ip := a.buildIPv4(frame, source, destinationMAC, destination, protocol, ttl)
	ip.SetTotalLength(uint16(ipv4.HeaderSize + payloadSize))
	ip.SetID(1)
	ip.SetChecksum(ip.CalculateChecksum())

	if err := payload.Read(ip.Payload()[:payloadSize], 0); err != nil {
		return fmt.Errorf("copy payload: %w", err)
	}

	a.packetsOut.Add(1)
	a.bytesOut.Add(uint64(frameSize))
	return a.sender.SendRaw(frame)
}

// sendIPv4Fragmented splits the payload on the 8-byte fragment-offset
// granularity of IPv4 and transmits each fragment independently. There
// is no datagram-level atomicity: a read fault aborts the remaining
// fragments but those already transmitted stay sent.
func (a *Adapter) sendIPv4Fragmented(source ipv4.Addr, destinationMAC ethernet.HardwareAddr, destination ipv4.Addr, protocol ipv4.Protocol, payload PayloadSource, payloadSize int, ttl uint8) error {
	blockBoundary := (a.MTU() - ipv4.HeaderSize) &^ 7
	if blockBoundary <= 0 {
		return fmt.Errorf("mtu %d too small to fragment", a.MTU())
	}
	fragmentCount := (payloadSize + blockBoundary - 1) / blockBoundary
	lastFragmentSize := payloadSize - blockBoundary*(fragmentCount-1)
	offsetUnitsPerFragment := blockBoundary / 8

	identification := a.ident()

	for i := 0; i < fragmentCount; i++ {
		last := i+1 == fragmentCount
		chunkSize := blockBoundary
		if last {
			chunkSize = lastFragmentSize
		}

		frameSize := ethernet.HeaderSize + ipv4.HeaderSize + chunkSize
		frame := make([]byte, frameSize)
		ip := a.buildIPv4(frame, source, destinationMAC, destination, protocol, ttl)
		ip.SetTotalLength(uint16(ipv4.HeaderSize + chunkSize))
		ip.SetID(identification)
		ip.SetFragment(!last, uint16(i*offsetUnitsPerFragment))
		ip.SetChecksum(ip.CalculateChecksum())

		if err := payload.Read(ip.Payload()[:chunkSize], i*blockBoundary); err != nil {
			return fmt.Errorf("copy fragment %d: %w", i, err)
		}

		a.packetsOut.Add(1)
		a.bytesOut.Add(uint64(frameSize))
		a.fragmentsOut.Add(1)
		if err := a.sender.SendRaw(frame); err != nil {
			return fmt.Errorf("send fragment %d: %w", i, err)
		}
	}
	return nil
}

// buildIPv4 writes the Ethernet header and the fixed IPv4 header fields
// shared by the single-frame and fragmented paths into frame, returning
// the IPv4 view positioned after the Ethernet header.
func (a *Adapter) buildIPv4(frame []byte, source ipv4.Addr, destinationMAC ethernet.HardwareAddr, destination ipv4.Addr, protocol ipv4.Protocol, ttl uint8) ipv4.Frame {
	eth, _ := ethernet.NewFrame(frame)
	eth.SetSource(a.HardwareAddr())
	eth.SetDestination(destinationMAC)
	eth.SetEtherType(ethernet.TypeIPv4)

	ip, _ := ipv4.NewFrame(eth.Payload())
	ip.SetVersionAndIHL(4, 5)
	ip.SetSource(source)
	ip.SetDestination(destination)
	ip.SetProtocol(protocol)
	ip.SetTTL(ttl)
	return ip
}
