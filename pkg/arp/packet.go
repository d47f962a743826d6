package arp

import (
	"encoding/binary"

	"netdev-go/pkg/ethernet"
	"netdev-go/pkg/ipv4"
)

// PacketSize is the length of an ARP packet for Ethernet/IPv4: fixed
// hardware and protocol address sizes, no padding. The adapter layer
// copies packets byte-for-byte without interpreting them.
const PacketSize = 28

type Operation uint16

const (
	OpRequest Operation = 1
	OpReply   Operation = 2
)

// HardwareTypeEthernet is the ARP hardware type for Ethernet links.
const HardwareTypeEthernet = 1

// Packet is an ARP packet in wire layout: hardware type (2), protocol
// type (2), hardware/protocol address lengths (1+1), operation (2),
// sender hardware+protocol address (6+4), target hardware+protocol
// address (6+4).
type Packet [PacketSize]byte

// NewPacket builds an Ethernet/IPv4 ARP packet with the given operation
// and address tuples.
func NewPacket(op Operation, senderHW ethernet.HardwareAddr, senderIP ipv4.Addr, targetHW ethernet.HardwareAddr, targetIP ipv4.Addr) Packet {
	var p Packet
	binary.BigEndian.PutUint16(p[0:2], HardwareTypeEthernet)
	binary.BigEndian.PutUint16(p[2:4], uint16(ethernet.TypeIPv4))
	p[4] = 6
	p[5] = 4
	binary.BigEndian.PutUint16(p[6:8], uint16(op))
	copy(p[8:14], senderHW[:])
	copy(p[14:18], senderIP[:])
	copy(p[18:24], targetHW[:])
	copy(p[24:28], targetIP[:])
	return p
}

func (p *Packet) HardwareType() uint16 { return binary.BigEndian.Uint16(p[0:2]) }

func (p *Packet) ProtocolType() ethernet.EtherType {
	return ethernet.EtherType(binary.BigEndian.Uint16(p[2:4]))
}

func (p *Packet) Operation() Operation {
	return Operation(binary.BigEndian.Uint16(p[6:8]))
}

func (p *Packet) SenderHardwareAddr() ethernet.HardwareAddr {
	var a ethernet.HardwareAddr
	copy(a[:], p[8:14])
	return a
}

func (p *Packet) SenderProtocolAddr() ipv4.Addr {
	var a ipv4.Addr
	copy(a[:], p[14:18])
	return a
}

func (p *Packet) TargetHardwareAddr() ethernet.HardwareAddr {
	var a ethernet.HardwareAddr
	copy(a[:], p[18:24])
	return a
}

func (p *Packet) TargetProtocolAddr() ipv4.Addr {
	var a ipv4.Addr
	copy(a[:], p[24:28])
	return a
}
