package profile

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/engine/conversation"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/engine/synth"
	"Go2NetForge/internal/factory"
	"Go2NetForge/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterScenario("intrusion", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		intrusionCfg := def.Intrusion

		victim, err := parseIP("victim", intrusionCfg.Victim)
		if err != nil {
			return nil, err
		}
		attacker, err := parseOptionalIP("attacker", intrusionCfg.Attacker)
		if err != nil {
			return nil, err
		}
		server, err := parseOptionalIP("server", intrusionCfg.Server)
		if err != nil {
			return nil, err
		}

		cfg := IntrusionConfig{
			Victim:    victim,
			Attacker:  attacker,
			Server:    server,
			Downloads: intrusionCfg.Downloads,
			Seed:      sc,
			Start:     start,
		}
		return &scenario{name: def.Name, run: func() (*model.PacketBatch, *model.RunSummary, error) {
			return Intrusion(cfg)
		}}, nil
	})
}

// --- Intrusion Implementation ---

const defaultDownloads = 3

// Pause between intrusion phases and between downloads.
const (
	minPhasePause = 2 * time.Second
	maxPhasePause = 8 * time.Second
)

// IntrusionConfig describes a staged compromise of one victim host.
type IntrusionConfig struct {
	Victim net.IP
	// Attacker is the host driving the backdoor. Derived from the seed
	// when nil.
	Attacker net.IP
	// Server is the drop server the victim downloads payloads from.
	// Derived from the seed when nil.
	Server net.IP
	// Downloads is the number of staged payloads, 0 means 3.
	Downloads int
	Seed      seed.Context
	Start     time.Time
}

// Intrusion generates the three phases in order: credential harvesting over
// the victim's control port, payload downloads from the drop server, then
// remote command execution. Conversation k is the credential exchange for
// k=0, download k-1 for 0<k<=Downloads, and the execution exchange last.
func Intrusion(cfg IntrusionConfig) (*model.PacketBatch, *model.RunSummary, error) {
	if cfg.Victim == nil {
		return nil, nil, fmt.Errorf("intrusion requires a victim address")
	}
	if cfg.Downloads < 0 {
		return nil, nil, fmt.Errorf("intrusion download count must not be negative, got %d", cfg.Downloads)
	}
	downloads := cfg.Downloads
	if downloads == 0 {
		downloads = defaultDownloads
	}
	start := cfg.Start
	if start.IsZero() {
		start = DefaultStart
	}

	attacker := cfg.Attacker
	if attacker == nil {
		attacker = cfg.Seed.PublicIPv4(runPrimaryAddrIndex)
	}
	dropServer := cfg.Server
	if dropServer == nil {
		dropServer = cfg.Seed.PublicIPv4(runSecondaryAddrIndex)
	}
	sr := cfg.Seed.Rand(runSynthIndex)
	pacing := cfg.Seed.Rand(runPacingIndex)
	host := synth.Domain(sr)

	batch := model.NewPacketBatch()
	summary := model.NewRunSummary("intrusion", cfg.Seed.Base())

	// Phase 1: the attacker authenticates against the backdoor and pulls
	// the credential files.
	frames, _, err := conversation.PlainText(conversation.PlainTextConfig{
		Client:   model.Endpoint{IP: attacker},
		Server:   model.Endpoint{IP: cfg.Victim},
		Messages: synth.CredentialDialogue(),
		Close:    true,
		Seed:     cfg.Seed,
		Index:    strideIndex(0),
		Start:    start,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("credential phase: %w", err)
	}
	batch.Append(frames...)
	summary.Details["credential_frames"] = strconv.Itoa(len(frames))
	ts := frames[len(frames)-1].Timestamp.Add(seed.Span(pacing, minPhasePause, maxPhasePause))

	// Phase 2: the victim fetches the staged payloads.
	downloaded := 0
	for d := 0; d < downloads; d++ {
		frames, _, err = conversation.Navigate(conversation.NavigateConfig{
			Client: model.Endpoint{IP: cfg.Victim},
			Host:   host,
			Server: dropServer,
			Content: []conversation.ContentItem{{
				Path: synth.PayloadPath(sr, d),
				Kind: synth.KindBin,
				Size: 30000 + sr.Intn(170000),
			}},
			Close: true,
			Seed:  cfg.Seed,
			Index: strideIndex(1 + d),
			Start: ts,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("download %d: %w", d, err)
		}
		batch.Append(frames...)
		downloaded += len(frames)
		ts = frames[len(frames)-1].Timestamp.Add(seed.Span(pacing, minPhasePause, maxPhasePause))
	}
	summary.Details["download_frames"] = strconv.Itoa(downloaded)

	// Phase 3: the attacker runs commands and covers its tracks.
	frames, _, err = conversation.PlainText(conversation.PlainTextConfig{
		Client:   model.Endpoint{IP: attacker},
		Server:   model.Endpoint{IP: cfg.Victim},
		Messages: synth.ExecDialogue(),
		Close:    true,
		Seed:     cfg.Seed,
		Index:    strideIndex(1 + downloads),
		Start:    ts,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("execution phase: %w", err)
	}
	batch.Append(frames...)
	summary.Details["execution_frames"] = strconv.Itoa(len(frames))

	batch.SortByTime()
	summary.CountBatch(batch)
	summary.Details["attacker"] = attacker.String()
	summary.Details["drop_server"] = dropServer.String()
	summary.Details["drop_host"] = host
	summary.Details["downloads"] = strconv.Itoa(downloads)
	return batch, summary, nil
}
