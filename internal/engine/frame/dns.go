package frame

import (
	"fmt"
	"net"
	"time"

	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	dnsPort = 53
	dnsTTL  = 300
)

// Derivation index offsets consumed by a DNSSpec, relative to its base
// index.
const (
	idxDNSTxnID = iota
	idxDNSClientPort
	idxDNSClientMAC
	idxDNSResolverMAC
	idxDNSAnswer
)

// DNSSpec describes one lookup: who asks, who answers, and for what name.
// Query and response must be built from the same spec so they share the
// derived transaction ID and ports.
type DNSSpec struct {
	Client   model.Endpoint
	Resolver model.Endpoint
	Name     string
	Seed     seed.Context
	Index    int64
}

func (s *DNSSpec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("dns: name is required")
	}
	if s.Client.IP == nil {
		return fmt.Errorf("dns: client IP is required")
	}
	if s.Resolver.IP == nil {
		return fmt.Errorf("dns: resolver IP is required")
	}
	return nil
}

func (s *DNSSpec) resolve() (client, resolver model.Endpoint, txnID uint16) {
	client, resolver = s.Client, s.Resolver
	if client.Port == 0 {
		client.Port = s.Seed.Port(s.Index + idxDNSClientPort)
	}
	if client.MAC == nil {
		client.MAC = s.Seed.MAC(s.Index + idxDNSClientMAC)
	}
	if resolver.Port == 0 {
		resolver.Port = dnsPort
	}
	if resolver.MAC == nil {
		resolver.MAC = s.Seed.MAC(s.Index + idxDNSResolverMAC)
	}
	return client, resolver, s.Seed.TxnID(s.Index + idxDNSTxnID)
}

func (s *DNSSpec) question() []layers.DNSQuestion {
	return []layers.DNSQuestion{{
		Name:  []byte(s.Name),
		Type:  layers.DNSTypeA,
		Class: layers.DNSClassIN,
	}}
}

// DNSQuery builds the A-record query for the spec's name.
func DNSQuery(spec DNSSpec, ts time.Time) (*model.Frame, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	client, resolver, txnID := spec.resolve()
	dnsLayer := &layers.DNS{
		ID:        txnID,
		RD:        true,
		OpCode:    layers.DNSOpCodeQuery,
		Questions: spec.question(),
	}
	return buildUDP(client, resolver, model.Initiator, dnsLayer, ts)
}

// DNSAnswer builds the response resolving the spec's name to addr. A nil
// addr resolves to a seed-derived public address. The resolved address is
// returned alongside the frame.
func DNSAnswer(spec DNSSpec, addr net.IP, ts time.Time) (*model.Frame, net.IP, error) {
	if err := spec.validate(); err != nil {
		return nil, nil, err
	}
	client, resolver, txnID := spec.resolve()
	if addr == nil {
		addr = spec.Seed.PublicIPv4(spec.Index + idxDNSAnswer)
	}
	if addr.To4() == nil {
		return nil, nil, fmt.Errorf("dns: answer address %s is not IPv4", addr)
	}
	dnsLayer := &layers.DNS{
		ID:           txnID,
		QR:           true,
		RD:           true,
		RA:           true,
		OpCode:       layers.DNSOpCodeQuery,
		ResponseCode: layers.DNSResponseCodeNoErr,
		Questions:    spec.question(),
		Answers: []layers.DNSResourceRecord{{
			Name:  []byte(spec.Name),
			Type:  layers.DNSTypeA,
			Class: layers.DNSClassIN,
			TTL:   dnsTTL,
			IP:    addr.To4(),
		}},
	}
	f, err := buildUDP(resolver, client, model.Responder, dnsLayer, ts)
	if err != nil {
		return nil, nil, err
	}
	return f, addr, nil
}

// DNSFailure builds the response carrying the given failure code and no
// answers. The question section is echoed back as real resolvers do.
func DNSFailure(spec DNSSpec, rcode layers.DNSResponseCode, ts time.Time) (*model.Frame, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	client, resolver, txnID := spec.resolve()
	dnsLayer := &layers.DNS{
		ID:           txnID,
		QR:           true,
		RD:           true,
		RA:           true,
		OpCode:       layers.DNSOpCodeQuery,
		ResponseCode: rcode,
		Questions:    spec.question(),
	}
	return buildUDP(resolver, client, model.Responder, dnsLayer, ts)
}

// buildUDP serializes one UDP frame carrying a DNS message.
func buildUDP(src, dst model.Endpoint, dir model.Direction, dnsLayer *layers.DNS, ts time.Time) (*model.Frame, error) {
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
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src.IP.To4(),
		DstIP:    dst.IP.To4(),
	}
	udpLayer := &layers.UDP{
		SrcPort: layers.UDPPort(src.Port),
		DstPort: layers.UDPPort(dst.Port),
	}
	if err := udpLayer.SetNetworkLayerForChecksum(ipLayer); err != nil {
		return nil, fmt.Errorf("failed to bind checksum layer: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		ComputeChecksums: true,
		FixLengths:       true,
	}
	if err := gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, udpLayer, dnsLayer); err != nil {
		return nil, fmt.Errorf("failed to serialize DNS frame: %w", err)
	}

	return &model.Frame{
		Timestamp: ts,
		Direction: dir,
		Src:       src,
		Dst:       dst,
		Protocol:  model.ProtoUDP,
		Data:      append([]byte(nil), buf.Bytes()...),
	}, nil
}
