package profile

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/engine/conversation"
	"Go2NetForge/internal/engine/frame"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/factory"
	"Go2NetForge/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterScenario("synflood", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		floodCfg := def.SYNFlood

		victim, err := parseIP("victim", floodCfg.Victim)
		if err != nil {
			return nil, err
		}
		var window time.Duration
		if floodCfg.Window != "" {
			window, err = time.ParseDuration(floodCfg.Window)
			if err != nil {
				return nil, fmt.Errorf("invalid window for scenario '%s': %w", def.Name, err)
			}
		}

		cfg := SYNFloodConfig{
			Victim:    victim,
			Port:      floodCfg.Port,
			Ports:     floodCfg.Ports,
			Attackers: floodCfg.Attackers,
			Window:    window,
			Seed:      sc,
			Start:     start,
		}
		return &scenario{name: def.Name, run: func() (*model.PacketBatch, *model.RunSummary, error) {
			return SYNFlood(cfg)
		}}, nil
	})
}

// --- SYN Flood Implementation ---

const (
	defaultAttackers   = 100
	defaultFloodWindow = 10 * time.Second

	// Victim turnaround between a SYN and its SYN|ACK.
	minSYNACKDelay = 200 * time.Microsecond
	maxSYNACKDelay = 2 * time.Millisecond
)

// SYNFloodConfig describes a half-open connection flood against one victim.
type SYNFloodConfig struct {
	Victim net.IP
	Port   uint16   // single target port, 0 means 80
	Ports  []uint16 // multi-port sweep, overrides Port when set
	// Attackers is the number of distinct spoofed sources, 0 means 100.
	Attackers int
	// Window is the time span the flood is spread over, 0 means 10s.
	Window time.Duration
	Seed   seed.Context
	Start  time.Time
}

// SYNFlood generates one half-open attempt per (attacker, port) pair, evenly
// spaced across the window with per-attempt jitter. Every attempt contributes
// a SYN and the victim's SYN|ACK; no handshake is ever completed.
func SYNFlood(cfg SYNFloodConfig) (*model.PacketBatch, *model.RunSummary, error) {
	if cfg.Victim == nil {
		return nil, nil, fmt.Errorf("synflood requires a victim address")
	}
	ports := cfg.Ports
	if len(ports) == 0 {
		port := cfg.Port
		if port == 0 {
			port = 80
		}
		ports = []uint16{port}
	}
	attackers := cfg.Attackers
	if attackers <= 0 {
		attackers = defaultAttackers
	}
	window := cfg.Window
	if window <= 0 {
		window = defaultFloodWindow
	}
	start := cfg.Start
	if start.IsZero() {
		start = DefaultStart
	}

	victimMAC := cfg.Seed.MAC(runPrimaryAddrIndex)
	sources := spoofedSources(cfg.Seed, attackers, len(ports))

	total := attackers * len(ports)
	interval := window / time.Duration(total)

	batch := model.NewPacketBatch()
	for a := 0; a < total; a++ {
		// Sources rotate packet by packet; ports advance in phases.
		i := a % attackers
		j := a / attackers
		base := strideIndex(i*len(ports) + j)
		jr := cfg.Seed.Rand(base + strideJitterOffset)

		frames, err := conversation.HalfOpenTCP(frame.ConnSpec{
			Client: model.Endpoint{IP: sources[i]},
			Server: model.Endpoint{MAC: victimMAC, IP: cfg.Victim, Port: ports[j]},
			Seed:   cfg.Seed,
			Index:  base,
			Start:  start.Add(time.Duration(a)*interval + seed.Span(jr, 0, interval/2)),
			Step:   seed.Span(jr, minSYNACKDelay, maxSYNACKDelay),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("attempt %d: %w", a, err)
		}
		batch.Append(frames...)
	}
	batch.SortByTime()

	portList := make([]string, len(ports))
	for i, p := range ports {
		portList[i] = strconv.Itoa(int(p))
	}

	summary := model.NewRunSummary("synflood", cfg.Seed.Base())
	summary.CountBatch(batch)
	summary.Details["attackers"] = strconv.Itoa(attackers)
	summary.Details["ports"] = strings.Join(portList, ",")
	summary.Details["half_open"] = strconv.Itoa(total)
	summary.Details["unique_sources"] = strconv.Itoa(attackers)
	summary.Details["packets_per_sec"] = fmt.Sprintf("%.1f", float64(batch.Len())/summary.Duration().Seconds())
	return batch, summary, nil
}

// spoofedSources derives one public source address per attacker, probing
// past the rare collision so every attacker is distinct.
func spoofedSources(sc seed.Context, attackers, portCount int) []net.IP {
	sources := make([]net.IP, attackers)
	used := make(map[string]struct{}, attackers)
	for i := range sources {
		base := strideIndex(i * portCount)
		for probe := int64(0); ; probe++ {
			ip := sc.PublicIPv4(base + strideValueOffset + probe)
			if _, dup := used[ip.String()]; !dup {
				used[ip.String()] = struct{}{}
				sources[i] = ip
				break
			}
		}
	}
	return sources
}
