// Package frame builds individual link-layer frames with correct protocol
// state. Absent fields (ports, initial sequence numbers, MAC addresses) are
// derived from the seed context carried by the spec, so identical specs
// always serialize to identical bytes.
package frame

import (
	"fmt"
	"time"

	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	tcpWindow   = 14600
	defaultStep = 10 * time.Millisecond
)

// Derivation index offsets consumed by a ConnSpec, relative to its base
// index.
const (
	idxClientPort = iota
	idxClientISN
	idxServerISN
	idxClientMAC
	idxServerMAC
)

// ConnSpec describes a TCP connection to be opened. Client port and both
// MAC addresses may be left zero to have them derived.
type ConnSpec struct {
	Client model.Endpoint
	Server model.Endpoint
	Seed   seed.Context
	Index  int64
	Start  time.Time
	Step   time.Duration
}

func (s *ConnSpec) validate() error {
	if s.Client.IP == nil {
		return fmt.Errorf("handshake: client IP is required")
	}
	if s.Server.IP == nil {
		return fmt.Errorf("handshake: server IP is required")
	}
	if s.Server.Port == 0 {
		return fmt.Errorf("handshake: server port must be non-zero")
	}
	if s.Start.IsZero() {
		return fmt.Errorf("handshake: start time is required")
	}
	return nil
}

// resolve fills the derived fields and returns the completed endpoints.
func (s *ConnSpec) resolve() (client, server model.Endpoint) {
	client, server = s.Client, s.Server
	if client.Port == 0 {
		client.Port = s.Seed.Port(s.Index + idxClientPort)
	}
	if client.MAC == nil {
		client.MAC = s.Seed.MAC(s.Index + idxClientMAC)
	}
	if server.MAC == nil {
		server.MAC = s.Seed.MAC(s.Index + idxServerMAC)
	}
	return client, server
}

// Handshake builds the three-way handshake for the spec. It returns the
// frames in order (SYN, SYN|ACK, ACK) together with the connection context
// positioned just past the handshake.
func Handshake(spec ConnSpec) ([]*model.Frame, *model.ConnContext, error) {
	if err := spec.validate(); err != nil {
		return nil, nil, err
	}
	client, server := spec.resolve()
	step := spec.Step
	if step <= 0 {
		step = defaultStep
	}

	clientISN := spec.Seed.ISN(spec.Index + idxClientISN)
	serverISN := spec.Seed.ISN(spec.Index + idxServerISN)

	syn, err := buildTCP(client, server, model.Initiator, clientISN, 0, model.FlagSYN, nil, spec.Start)
	if err != nil {
		return nil, nil, err
	}
	synAck, err := buildTCP(server, client, model.Responder, serverISN, clientISN+1,
		model.FlagSYN|model.FlagACK, nil, spec.Start.Add(step))
	if err != nil {
		return nil, nil, err
	}
	ack, err := buildTCP(client, server, model.Initiator, clientISN+1, serverISN+1,
		model.FlagACK, nil, spec.Start.Add(2*step))
	if err != nil {
		return nil, nil, err
	}

	ctx := &model.ConnContext{
		Client:        client,
		Server:        server,
		NextClientSeq: clientISN + 1,
		NextServerSeq: serverISN + 1,
	}
	return []*model.Frame{syn, synAck, ack}, ctx, nil
}

// AppendSegment builds the segment that answers prev: source and
// destination swap, the sequence number is prev's acknowledgment and the
// acknowledgment covers everything prev consumed. ACK is always set. The
// returned frame can seed the next call, so a strictly alternating exchange
// is derivable from its first frame alone.
func AppendSegment(prev *model.Frame, payload []byte, flags model.TCPFlags, ts time.Time) (*model.Frame, error) {
	if prev == nil {
		return nil, fmt.Errorf("append: previous frame is required")
	}
	if prev.Protocol != model.ProtoTCP {
		return nil, fmt.Errorf("append: previous frame is not TCP (protocol %d)", prev.Protocol)
	}
	if !ts.After(prev.Timestamp) {
		return nil, fmt.Errorf("append: timestamp %s does not follow previous frame at %s",
			ts.Format(time.RFC3339Nano), prev.Timestamp.Format(time.RFC3339Nano))
	}
	seq := prev.Ack
	ack := prev.Seq + prev.SegmentLength()
	return buildTCP(prev.Dst, prev.Src, prev.Direction.Reverse(), seq, ack, flags|model.FlagACK, payload, ts)
}

// Segment builds the next frame in the given direction from the connection
// context and advances its bookkeeping. Unlike AppendSegment it tolerates
// one side sending several segments in a row.
func Segment(ctx *model.ConnContext, dir model.Direction, payload []byte, flags model.TCPFlags, ts time.Time) (*model.Frame, error) {
	if ctx == nil {
		return nil, fmt.Errorf("segment: connection context is required")
	}
	if ts.IsZero() {
		return nil, fmt.Errorf("segment: timestamp is required")
	}
	seq, ack := ctx.Next(dir)
	f, err := buildTCP(ctx.Endpoint(dir), ctx.Peer(dir), dir, seq, ack, flags|model.FlagACK, payload, ts)
	if err != nil {
		return nil, err
	}
	ctx.Observe(f)
	return f, nil
}

// FinalizeConnection closes the connection with the standard four-frame
// exchange: client FIN|ACK, server ACK, server FIN|ACK, client ACK. The
// numbers come from the context's explicit next-sequence bookkeeping.
// Frames are spaced step apart starting at ts.
func FinalizeConnection(ctx *model.ConnContext, ts time.Time, step time.Duration) ([]*model.Frame, error) {
	if ctx == nil {
		return nil, fmt.Errorf("finalize: connection context is required")
	}
	if ts.IsZero() {
		return nil, fmt.Errorf("finalize: timestamp is required")
	}
	if step <= 0 {
		step = defaultStep
	}
	c, s := ctx.NextClientSeq, ctx.NextServerSeq

	finClient, err := buildTCP(ctx.Client, ctx.Server, model.Initiator, c, s,
		model.FlagFIN|model.FlagACK, nil, ts)
	if err != nil {
		return nil, err
	}
	ackServer, err := buildTCP(ctx.Server, ctx.Client, model.Responder, s, c+1,
		model.FlagACK, nil, ts.Add(step))
	if err != nil {
		return nil, err
	}
	finServer, err := buildTCP(ctx.Server, ctx.Client, model.Responder, s, c+1,
		model.FlagFIN|model.FlagACK, nil, ts.Add(2*step))
	if err != nil {
		return nil, err
	}
	ackClient, err := buildTCP(ctx.Client, ctx.Server, model.Initiator, c+1, s+1,
		model.FlagACK, nil, ts.Add(3*step))
	if err != nil {
		return nil, err
	}

	ctx.NextClientSeq = c + 1
	ctx.NextServerSeq = s + 1
	return []*model.Frame{finClient, ackServer, finServer, ackClient}, nil
}

// buildTCP serializes one TCP frame and wraps it with its metadata.
func buildTCP(src, dst model.Endpoint, dir model.Direction, seq, ack uint32, flags model.TCPFlags, payload []byte, ts time.Time) (*model.Frame, error) {
	if len(src.MAC) != 6 || len(dst.MAC) != 6 {
		return nil, fmt.Errorf("frame: both MAC addresses are required")
	}
	if src.IP.To4() == nil || dst.IP.To4() == nil {
		return nil, fmt.Errorf("frame: IPv4 addresses are required")
	}

	ethLayer := &layers.Ethernet{
		SrcMAC:       src.MAC,
		DstMAC:       dst.MAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ipLayer := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    src.IP.To4(),
		DstIP:    dst.IP.To4(),
	}
	tcpLayer := &layers.TCP{
		SrcPort: layers.TCPPort(src.Port),
		DstPort: layers.TCPPort(dst.Port),
		Seq:     seq,
		Ack:     ack,
		FIN:     flags.Has(model.FlagFIN),
		SYN:     flags.Has(model.FlagSYN),
		RST:     flags.Has(model.FlagRST),
		PSH:     flags.Has(model.FlagPSH),
		ACK:     flags.Has(model.FlagACK),
		Window:  tcpWindow,
	}
	if err := tcpLayer.SetNetworkLayerForChecksum(ipLayer); err != nil {
		return nil, fmt.Errorf("failed to bind checksum layer: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		ComputeChecksums: true,
		FixLengths:       true,
	}
	var err error
	if len(payload) > 0 {
		err = gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, tcpLayer, gopacket.Payload(payload))
	} else {
		err = gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, tcpLayer)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize TCP frame: %w", err)
	}

	f := &model.Frame{
		Timestamp: ts,
		Direction: dir,
		Src:       src,
		Dst:       dst,
		Protocol:  model.ProtoTCP,
		Flags:     flags,
		Seq:       seq,
		Ack:       ack,
		Data:      append([]byte(nil), buf.Bytes()...),
	}
	if len(payload) > 0 {
		f.Payload = append([]byte(nil), payload...)
	}
	return f, nil
}
