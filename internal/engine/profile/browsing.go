package profile

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/engine/conversation"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/engine/synth"
	"Go2NetForge/internal/factory"
	"Go2NetForge/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterScenario("browsing", func(def config.ScenarioDef, sc seed.Context, start time.Time) (model.Scenario, error) {
		browsingCfg := def.Browsing

		client, err := parseOptionalIP("client", browsingCfg.Client)
		if err != nil {
			return nil, err
		}
		clientBase, err := parseOptionalIP("client_base", browsingCfg.ClientBase)
		if err != nil {
			return nil, err
		}
		resolver, err := parseOptionalIP("resolver", browsingCfg.Resolver)
		if err != nil {
			return nil, err
		}

		cfg := BrowsingConfig{
			Client:     client,
			ClientBase: clientBase,
			Users:      browsingCfg.Users,
			Pages:      browsingCfg.Pages,
			Resolver:   resolver,
			Verbose:    browsingCfg.Verbose,
			Seed:       sc,
			Start:      start,
		}
		return &scenario{name: def.Name, run: func() (*model.PacketBatch, *model.RunSummary, error) {
			return Browsing(cfg)
		}}, nil
	})
}

// --- Browsing Implementation ---

// Pause between page visits of one user.
const (
	minReadingDelay = 5 * time.Second
	maxReadingDelay = 30 * time.Second
)

// BrowsingConfig describes a benign web-browsing scene: one or more client
// hosts each resolving and fetching a sequence of pages.
type BrowsingConfig struct {
	// Client is the browsing host for single-user runs. Leave nil to derive
	// a private address from the seed.
	Client net.IP
	// ClientBase is the first of Users consecutive client addresses.
	// Required when Users > 1.
	ClientBase net.IP
	Users      int // 0 means 1
	Pages      int
	Resolver   net.IP // nil selects the conversation default
	Verbose    bool
	Seed       seed.Context
	Start      time.Time
}

// Browsing generates the scene. Users run concurrently but every value is
// drawn from per-conversation seed strides, so the merged batch does not
// depend on scheduling.
func Browsing(cfg BrowsingConfig) (*model.PacketBatch, *model.RunSummary, error) {
	if cfg.Pages <= 0 {
		return nil, nil, fmt.Errorf("browsing requires at least one page per user, got %d", cfg.Pages)
	}
	users := cfg.Users
	if users <= 0 {
		users = 1
	}
	start := cfg.Start
	if start.IsZero() {
		start = DefaultStart
	}

	clients, err := browsingClients(cfg, users)
	if err != nil {
		return nil, nil, err
	}

	batches := make([]*model.PacketBatch, users)
	var g errgroup.Group
	for u := 0; u < users; u++ {
		g.Go(func() error {
			b, err := browseUser(cfg, clients[u], u, start)
			if err != nil {
				return fmt.Errorf("user %d: %w", u, err)
			}
			batches[u] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	batch := model.NewPacketBatch()
	for _, b := range batches {
		batch.Append(b.Frames...)
	}
	batch.SortByTime()

	summary := model.NewRunSummary("browsing", cfg.Seed.Base())
	summary.CountBatch(batch)
	summary.Details["users"] = strconv.Itoa(users)
	summary.Details["pages_per_user"] = strconv.Itoa(cfg.Pages)
	return batch, summary, nil
}

// browsingClients resolves the client address of every user.
func browsingClients(cfg BrowsingConfig, users int) ([]net.IP, error) {
	if users == 1 {
		client := cfg.Client
		if client == nil {
			client = cfg.ClientBase
		}
		if client == nil {
			r := cfg.Seed.Rand(runPrimaryAddrIndex)
			client = net.IPv4(192, 168, byte(r.Intn(256)), byte(1+r.Intn(254)))
		}
		return []net.IP{client}, nil
	}
	if cfg.ClientBase == nil {
		return nil, fmt.Errorf("browsing with %d users requires a client base address", users)
	}
	clients := make([]net.IP, users)
	for u := range clients {
		ip, err := offsetIPv4(cfg.ClientBase, u)
		if err != nil {
			return nil, err
		}
		clients[u] = ip
	}
	return clients, nil
}

// browseUser generates the page visits of one user. Conversation k of the
// run is user*Pages+p, which fixes its seed stride regardless of how many
// users run concurrently.
func browseUser(cfg BrowsingConfig, client net.IP, user int, start time.Time) (*model.PacketBatch, error) {
	batch := model.NewPacketBatch()
	ts := start
	for p := 0; p < cfg.Pages; p++ {
		base := strideIndex(user*cfg.Pages + p)
		pr := cfg.Seed.Rand(base + strideValueOffset)
		host := synth.Domain(pr)
		page := synth.Page(pr)

		content := make([]conversation.ContentItem, len(page))
		for i, res := range page {
			content[i] = conversation.ContentItem{Path: res.Path, Kind: res.Kind, Size: res.Size}
		}

		frames, _, err := conversation.Navigate(conversation.NavigateConfig{
			Client:   model.Endpoint{IP: client},
			Resolver: cfg.Resolver,
			Host:     host,
			Content:  content,
			Close:    true,
			Seed:     cfg.Seed,
			Index:    base,
			Start:    ts,
		})
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", p, host, err)
		}
		batch.Append(frames...)

		if cfg.Verbose {
			log.Printf("User %d visited %s (%d frames, %d assets)", user, host, len(frames), len(content))
		}

		// Next visit starts after a reading pause.
		last := frames[len(frames)-1].Timestamp
		ts = last.Add(cfg.Seed.Jitter(base+strideValue2Offset, minReadingDelay, maxReadingDelay))
	}
	return batch, nil
}
