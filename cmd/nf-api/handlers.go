package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"Go2NetForge/internal/config"
	"Go2NetForge/internal/engine/profile"
	"Go2NetForge/internal/engine/seed"
	"Go2NetForge/internal/model"
	"Go2NetForge/internal/query"
	"Go2NetForge/internal/recorder"
	"Go2NetForge/pkg/capture"
)

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	cfg       *config.Config
	querier   query.Querier
	recorders []model.Recorder
}

// generateRequest carries the run parameters shared by all generate endpoints.
type generateRequest struct {
	Seed   *int64 `json:"seed"`
	Start  string `json:"start_time"`
	Output string `json:"output"`
}

// resolveRun resolves the seed, start time and output path of one run
// request against the generator defaults.
func (h *APIHandler) resolveRun(req generateRequest) (seed.Context, time.Time, string, error) {
	base := h.cfg.Generator.Seed
	if req.Seed != nil {
		base = *req.Seed
	}
	sc := seed.New(base)
	if base == 0 {
		sc = seed.FromEntropy()
	}

	startValue := req.Start
	if startValue == "" {
		startValue = h.cfg.Generator.Start
	}
	var start time.Time
	if startValue != "" {
		var err error
		start, err = time.Parse(time.RFC3339, startValue)
		if err != nil {
			return seed.Context{}, time.Time{}, "", fmt.Errorf("invalid start time '%s': %w", startValue, err)
		}
	}

	output := req.Output
	if output == "" {
		output = h.cfg.Generator.Output
	}
	if output == "" {
		output = "traffic.pcap"
	}
	return sc, start, output, nil
}

// finishRun merges the batch into the capture, records the summary and
// writes it back as the response.
func (h *APIHandler) finishRun(w http.ResponseWriter, r *http.Request, batch *model.PacketBatch, summary *model.RunSummary, output string) {
	if _, err := capture.Merge(output, batch.Records()); err != nil {
		http.Error(w, fmt.Sprintf("failed to write capture: %v", err), http.StatusInternalServerError)
		return
	}
	summary.Details["output"] = output
	recorder.RecordAll(r.Context(), h.recorders, summary)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// parseAddr parses an optional request address field.
func parseAddr(field, value string) (net.IP, error) {
	if value == "" {
		return nil, nil
	}
	ip := net.ParseIP(value)
	if ip == nil {
		return nil, fmt.Errorf("invalid %s address '%s'", field, value)
	}
	return ip, nil
}

type browsingRequest struct {
	generateRequest
	Client     string `json:"client"`
	ClientBase string `json:"client_base"`
	Users      int    `json:"users"`
	Pages      int    `json:"pages"`
	Resolver   string `json:"resolver"`
}

// generateBrowsingHandler generates a browsing run.
func (h *APIHandler) generateBrowsingHandler(w http.ResponseWriter, r *http.Request) {
	var req browsingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	sc, start, output, err := h.resolveRun(req.generateRequest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	client, err := parseAddr("client", req.Client)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	clientBase, err := parseAddr("client_base", req.ClientBase)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resolver, err := parseAddr("resolver", req.Resolver)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Pages == 0 {
		req.Pages = 6
	}

	batch, summary, err := profile.Browsing(profile.BrowsingConfig{
		Client:     client,
		ClientBase: clientBase,
		Users:      req.Users,
		Pages:      req.Pages,
		Resolver:   resolver,
		Seed:       sc,
		Start:      start,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to generate browsing run: %v", err), http.StatusBadRequest)
		return
	}
	h.finishRun(w, r, batch, summary, output)
}

type synfloodRequest struct {
	generateRequest
	Victim    string   `json:"victim"`
	Port      uint16   `json:"port"`
	Ports     []uint16 `json:"ports"`
	Attackers int      `json:"attackers"`
	Window    string   `json:"window"`
}

// generateSYNFloodHandler generates a SYN flood run.
func (h *APIHandler) generateSYNFloodHandler(w http.ResponseWriter, r *http.Request) {
	var req synfloodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	sc, start, output, err := h.resolveRun(req.generateRequest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	victim, err := parseAddr("victim", req.Victim)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var window time.Duration
	if req.Window != "" {
		window, err = time.ParseDuration(req.Window)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid window '%s': %v", req.Window, err), http.StatusBadRequest)
			return
		}
	}

	batch, summary, err := profile.SYNFlood(profile.SYNFloodConfig{
		Victim:    victim,
		Port:      req.Port,
		Ports:     req.Ports,
		Attackers: req.Attackers,
		Window:    window,
		Seed:      sc,
		Start:     start,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to generate synflood run: %v", err), http.StatusBadRequest)
		return
	}
	h.finishRun(w, r, batch, summary, output)
}

type intrusionRequest struct {
	generateRequest
	Victim    string `json:"victim"`
	Attacker  string `json:"attacker"`
	Server    string `json:"server"`
	Downloads int    `json:"downloads"`
}

// generateIntrusionHandler generates a staged intrusion run.
func (h *APIHandler) generateIntrusionHandler(w http.ResponseWriter, r *http.Request) {
	var req intrusionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}
	sc, start, output, err := h.resolveRun(req.generateRequest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	victim, err := parseAddr("victim", req.Victim)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	attacker, err := parseAddr("attacker", req.Attacker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	server, err := parseAddr("server", req.Server)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, summary, err := profile.Intrusion(profile.IntrusionConfig{
		Victim:    victim,
		Attacker:  attacker,
		Server:    server,
		Downloads: req.Downloads,
		Seed:      sc,
		Start:     start,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to generate intrusion run: %v", err), http.StatusBadRequest)
		return
	}
	h.finishRun(w, r, batch, summary, output)
}

// listRunsHandler returns the most recent runs from the history store.
func (h *APIHandler) listRunsHandler(w http.ResponseWriter, r *http.Request) {
	if h.querier == nil {
		http.Error(w, "run history requires an enabled clickhouse recorder", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid limit '%s'", v), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.querier.ListRuns(r.Context(), r.URL.Query().Get("profile"), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query runs: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(runs)
}
