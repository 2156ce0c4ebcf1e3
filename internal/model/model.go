package model

import (
	"net"
	"strings"
	"time"
)

// IP protocol numbers used by generated frames.
const (
	ProtoTCP uint8 = 6
	ProtoUDP uint8 = 17
)

// Direction identifies which side of a conversation emitted a frame.
type Direction uint8

const (
	// Initiator is the side that opened the conversation (the client).
	Initiator Direction = iota
	// Responder is the side that answered it (the server).
	Responder
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Initiator {
		return Responder
	}
	return Initiator
}

func (d Direction) String() string {
	if d == Initiator {
		return "initiator"
	}
	return "responder"
}

// TCPFlags is the set of TCP control flags carried by a frame.
type TCPFlags uint8

const (
	FlagFIN TCPFlags = 1 << iota
	FlagSYN
	FlagRST
	FlagPSH
	FlagACK
)

// Has reports whether every flag in mask is set.
func (f TCPFlags) Has(mask TCPFlags) bool {
	return f&mask == mask
}

func (f TCPFlags) String() string {
	var parts []string
	if f.Has(FlagSYN) {
		parts = append(parts, "SYN")
	}
	if f.Has(FlagFIN) {
		parts = append(parts, "FIN")
	}
	if f.Has(FlagRST) {
		parts = append(parts, "RST")
	}
	if f.Has(FlagPSH) {
		parts = append(parts, "PSH")
	}
	if f.Has(FlagACK) {
		parts = append(parts, "ACK")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Endpoint identifies one side of a link: its hardware, network and
// transport addresses.
type Endpoint struct {
	MAC  net.HardwareAddr
	IP   net.IP
	Port uint16
}

// Frame is a single generated link-layer frame. It carries both the
// metadata the generator reasons about and the serialized wire bytes, and
// is never modified after it is built.
type Frame struct {
	Timestamp time.Time
	Direction Direction
	Src       Endpoint
	Dst       Endpoint
	Protocol  uint8 // IP protocol number (6 = TCP, 17 = UDP)
	Flags     TCPFlags
	Seq       uint32
	Ack       uint32
	Payload   []byte
	Data      []byte // Ethernet frame bytes, ready for a capture file
}

// SegmentLength returns the sequence space the frame consumes: its payload
// length plus one for SYN and one for FIN.
func (f *Frame) SegmentLength() uint32 {
	n := uint32(len(f.Payload))
	if f.Flags.Has(FlagSYN) {
		n++
	}
	if f.Flags.Has(FlagFIN) {
		n++
	}
	return n
}
