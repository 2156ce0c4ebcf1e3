package conversation

import (
	"fmt"
	"net"
	"time"

	"Go2NetForge/internal/engine/frame"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"

	"github.com/google/gopacket/layers"
)

// DNSOutcome selects how a lookup ends.
type DNSOutcome uint8

const (
	// DNSSuccess resolves the name to an address.
	DNSSuccess DNSOutcome = iota
	// DNSNameError answers NXDOMAIN: the name does not exist.
	DNSNameError
	// DNSServerFailure answers SERVFAIL: the resolver broke.
	DNSServerFailure
)

// DNSConfig describes one name lookup.
type DNSConfig struct {
	Client   model.Endpoint
	Resolver model.Endpoint // port 0 selects 53
	Name     string
	Outcome  DNSOutcome
	Answer   net.IP // optional fixed answer for DNSSuccess
	Seed     seed.Context
	Index    int64
	Start    time.Time
}

// ResolveDNS builds the query/response pair for the lookup. Successful
// lookups return the resolved address; failures return a nil address.
func ResolveDNS(cfg DNSConfig) ([]*model.Frame, net.IP, error) {
	spec := frame.DNSSpec{
		Client:   cfg.Client,
		Resolver: cfg.Resolver,
		Name:     cfg.Name,
		Seed:     cfg.Seed,
		Index:    cfg.Index + dnsIndexOffset,
	}
	jr := cfg.Seed.Rand(cfg.Index + jitterIndexOffset)

	query, err := frame.DNSQuery(spec, cfg.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve: %w", err)
	}
	replyAt := cfg.Start.Add(seed.Span(jr, minJitter, maxJitter))

	switch cfg.Outcome {
	case DNSSuccess:
		reply, addr, err := frame.DNSAnswer(spec, cfg.Answer, replyAt)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve: %w", err)
		}
		return []*model.Frame{query, reply}, addr, nil
	case DNSNameError:
		reply, err := frame.DNSFailure(spec, layers.DNSResponseCodeNXDomain, replyAt)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve: %w", err)
		}
		return []*model.Frame{query, reply}, nil, nil
	case DNSServerFailure:
		reply, err := frame.DNSFailure(spec, layers.DNSResponseCodeServFail, replyAt)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve: %w", err)
		}
		return []*model.Frame{query, reply}, nil, nil
	}
	return nil, nil, fmt.Errorf("resolve: unknown outcome %d", cfg.Outcome)
}
