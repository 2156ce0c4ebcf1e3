package conversation

import (
	"fmt"
	"net"
	"time"

	"Go2NetForge/internal/engine/frame"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/engine/synth"
	"Go2NetForge/internal/model"
)

// DefaultResolver answers lookups when no resolver address is configured.
var DefaultResolver = net.IPv4(8, 8, 8, 8)

// ContentItem is one asset fetched during a navigation.
type ContentItem struct {
	Path string // derived when empty
	Kind string // a synth content kind
	Size int
}

// NavigateConfig describes one page visit: resolve the host, open a
// connection on port 80, fetch each content item in order.
type NavigateConfig struct {
	Client   model.Endpoint
	Resolver net.IP // nil selects DefaultResolver
	Host     string
	Server   net.IP // nil uses the resolved address
	Content  []ContentItem
	Close    bool
	Seed     seed.Context
	Index    int64
	Start    time.Time
}

// Navigate builds the visit. The frame count is 5 + 2 per content item,
// plus 4 when Close is set.
func Navigate(cfg NavigateConfig) ([]*model.Frame, *model.ConnContext, error) {
	if cfg.Host == "" {
		return nil, nil, fmt.Errorf("navigate: host is required")
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = DefaultResolver
	}
	for _, item := range cfg.Content {
		if item.Size <= 0 {
			return nil, nil, fmt.Errorf("navigate: content size must be positive, got %d for %q", item.Size, item.Kind)
		}
		if _, err := synth.ContentType(item.Kind); err != nil {
			return nil, nil, fmt.Errorf("navigate: %w", err)
		}
	}

	jr := cfg.Seed.Rand(cfg.Index + jitterIndexOffset)
	pr := cfg.Seed.Rand(cfg.Index + payloadIndexOffset)

	dnsSpec := frame.DNSSpec{
		Client:   cfg.Client,
		Resolver: model.Endpoint{IP: resolver},
		Name:     cfg.Host,
		Seed:     cfg.Seed,
		Index:    cfg.Index + dnsIndexOffset,
	}
	query, err := frame.DNSQuery(dnsSpec, cfg.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("navigate: %w", err)
	}
	reply, addr, err := frame.DNSAnswer(dnsSpec, cfg.Server, cfg.Start.Add(seed.Span(jr, minJitter, maxJitter)))
	if err != nil {
		return nil, nil, fmt.Errorf("navigate: %w", err)
	}
	frames := []*model.Frame{query, reply}

	hs, ctx, err := frame.Handshake(frame.ConnSpec{
		Client: cfg.Client,
		Server: model.Endpoint{IP: addr, Port: httpPort},
		Seed:   cfg.Seed,
		Index:  cfg.Index + handshakeIndexOffset,
		Start:  reply.Timestamp.Add(seed.Span(jr, minJitter, maxJitter)),
		Step:   seed.Span(jr, minJitter, maxJitter),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("navigate: %w", err)
	}
	frames = append(frames, hs...)

	// The server's SYN|ACK anchors the first request; afterwards each
	// request chains off the previous response.
	prev := hs[1]
	ts := hs[2].Timestamp
	for i, item := range cfg.Content {
		path := item.Path
		if path == "" {
			path = synth.AssetPath(pr, item.Kind, i)
		}
		contentType, _ := synth.ContentType(item.Kind)
		body, err := synth.Body(pr, item.Kind, item.Size)
		if err != nil {
			return nil, nil, fmt.Errorf("navigate: %w", err)
		}

		ts = ts.Add(seed.Span(jr, minJitter, maxJitter))
		get, err := frame.HTTPGet(prev, cfg.Host, path, ts)
		if err != nil {
			return nil, nil, fmt.Errorf("navigate: request %d: %w", i, err)
		}
		ctx.Observe(get)

		ts = ts.Add(seed.Span(jr, minJitter, maxJitter))
		resp, err := frame.HTTPResponse(get, contentType, body, ts)
		if err != nil {
			return nil, nil, fmt.Errorf("navigate: response %d: %w", i, err)
		}
		ctx.Observe(resp)

		frames = append(frames, get, resp)
		prev = resp
	}

	if cfg.Close {
		closing, err := frame.FinalizeConnection(ctx, ts.Add(seed.Span(jr, minJitter, maxJitter)),
			seed.Span(jr, minJitter, maxJitter))
		if err != nil {
			return nil, nil, fmt.Errorf("navigate: %w", err)
		}
		frames = append(frames, closing...)
	}
	return frames, ctx, nil
}
