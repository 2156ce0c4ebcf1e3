// Package conversation assembles complete protocol exchanges from single
// frames. Each builder consumes a fixed window of derivation indices so the
// pieces of one conversation never share a random stream:
//
//	base+0  .. base+7   DNS derivations
//	base+8  .. base+15  TCP handshake derivations
//	base+16             frame timing jitter
//	base+17             payload synthesis
package conversation

import (
	"time"

	"Go2NetForge/internal/engine/frame"
	"Go2NetForge/internal/model"
)

const (
	dnsIndexOffset       = 0
	handshakeIndexOffset = 8
	jitterIndexOffset    = 16
	payloadIndexOffset   = 17
)

// IndexStride is the derivation-index spacing callers should leave between
// sibling conversations.
const IndexStride = 1000

// DefaultControlPort is the non-standard port plain-text sessions default
// to.
const DefaultControlPort = 4444

const (
	httpPort  = 80
	minJitter = 2 * time.Millisecond
	maxJitter = 20 * time.Millisecond
)

// OpenTCP opens a connection: the three-way handshake plus its context.
func OpenTCP(spec frame.ConnSpec) ([]*model.Frame, *model.ConnContext, error) {
	return frame.Handshake(spec)
}

// HalfOpenTCP starts a connection the initiator never completes: SYN and
// SYN|ACK only, the flood primitive.
func HalfOpenTCP(spec frame.ConnSpec) ([]*model.Frame, error) {
	frames, _, err := frame.Handshake(spec)
	if err != nil {
		return nil, err
	}
	return frames[:2], nil
}
