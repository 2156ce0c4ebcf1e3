package model

// ConnContext carries the live TCP state of one generated connection. The
// sequence bookkeeping is explicit: NextClientSeq and NextServerSeq are the
// numbers each side will use for its next frame, already advanced past any
// SYN, FIN or payload bytes that side has sent. Nothing is ever re-derived
// from the flag bits of an earlier frame.
type ConnContext struct {
	Client Endpoint
	Server Endpoint

	NextClientSeq uint32
	NextServerSeq uint32
}

// Endpoint returns the endpoint sending in the given direction.
func (c *ConnContext) Endpoint(d Direction) Endpoint {
	if d == Initiator {
		return c.Client
	}
	return c.Server
}

// Peer returns the endpoint receiving in the given direction.
func (c *ConnContext) Peer(d Direction) Endpoint {
	if d == Initiator {
		return c.Server
	}
	return c.Client
}

// Next returns the sequence and acknowledgment numbers for the next frame
// sent in the given direction.
func (c *ConnContext) Next(d Direction) (seq, ack uint32) {
	if d == Initiator {
		return c.NextClientSeq, c.NextServerSeq
	}
	return c.NextServerSeq, c.NextClientSeq
}

// Advance moves the sender's next sequence number past n units of sequence
// space.
func (c *ConnContext) Advance(d Direction, n uint32) {
	if d == Initiator {
		c.NextClientSeq += n
	} else {
		c.NextServerSeq += n
	}
}

// Observe advances the bookkeeping past a frame sent on this connection.
func (c *ConnContext) Observe(f *Frame) {
	c.Advance(f.Direction, f.SegmentLength())
}
