package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
generator:
  seed: 1337
  start_time: "2024-03-01T09:00:00Z"
  output: "captures/range.pcap"

relay:
  nats_url: "nats://127.0.0.1:4222"
  subject: "netforge.batches"
  max_payload: 2097152

sink:
  output: "captures/sink.pcap"

recorders:
  - type: "jsonl"
    enabled: true
    jsonl:
      path: "captures/runs.jsonl"
  - type: "clickhouse"
    enabled: false
    clickhouse:
      host: "localhost"
      port: 9000
      database: "default"

api:
  listen_addr: ":8080"

scenarios:
  - name: "morning-browsing"
    type: "browsing"
    browsing:
      client_base: "192.168.10.20"
      users: 4
      pages: 6
  - name: "lunchtime-flood"
    type: "synflood"
    seed: 2024
    start_time: "2024-03-01T12:30:00Z"
    synflood:
      victim: "203.0.113.10"
      ports: [80, 443]
      attackers: 150
      window: "20s"
`

func TestLoadConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// 1. Generator and service sections
	if cfg.Generator.Seed != 1337 || cfg.Generator.Output != "captures/range.pcap" {
		t.Errorf("Generator section parsed wrong: %+v", cfg.Generator)
	}
	if cfg.Relay.Subject != "netforge.batches" {
		t.Errorf("Relay subject is %q", cfg.Relay.Subject)
	}
	if cfg.Relay.MaxPayload.Bytes() != 2097152 {
		t.Errorf("Relay payload limit is %d, expected 2097152", cfg.Relay.MaxPayload.Bytes())
	}
	if cfg.Sink.Output != "captures/sink.pcap" {
		t.Errorf("Sink output is %q", cfg.Sink.Output)
	}
	if cfg.API.ListenAddr != ":8080" {
		t.Errorf("API listen address is %q", cfg.API.ListenAddr)
	}

	// 2. Recorder definitions
	if len(cfg.Recorders) != 2 {
		t.Fatalf("Expected 2 recorder definitions, got %d", len(cfg.Recorders))
	}
	if !cfg.Recorders[0].Enabled || cfg.Recorders[0].JSONL.Path != "captures/runs.jsonl" {
		t.Errorf("JSONL recorder parsed wrong: %+v", cfg.Recorders[0])
	}
	if cfg.Recorders[1].Enabled || cfg.Recorders[1].ClickHouse.Port != 9000 {
		t.Errorf("ClickHouse recorder parsed wrong: %+v", cfg.Recorders[1])
	}

	// 3. Scenario definitions and their seed overrides
	if len(cfg.Scenarios) != 2 {
		t.Fatalf("Expected 2 scenario definitions, got %d", len(cfg.Scenarios))
	}
	browsing := cfg.Scenarios[0]
	if browsing.Type != "browsing" || browsing.Seed != nil {
		t.Errorf("Browsing scenario parsed wrong: %+v", browsing)
	}
	if browsing.Browsing.ClientBase != "192.168.10.20" || browsing.Browsing.Users != 4 {
		t.Errorf("Browsing parameters parsed wrong: %+v", browsing.Browsing)
	}
	flood := cfg.Scenarios[1]
	if flood.Seed == nil || *flood.Seed != 2024 {
		t.Errorf("Flood seed override parsed wrong: %v", flood.Seed)
	}
	if flood.Start != "2024-03-01T12:30:00Z" || flood.SYNFlood.Window != "20s" {
		t.Errorf("Flood timing parsed wrong: %+v", flood)
	}
	if len(flood.SYNFlood.Ports) != 2 || flood.SYNFlood.Ports[1] != 443 {
		t.Errorf("Flood ports parsed wrong: %v", flood.SYNFlood.Ports)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig("no-such-config.yaml"); err == nil {
		t.Errorf("Expected an error for a missing file")
	}

	tmpDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(path, []byte("generator: [not: a: map"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("Expected an error for invalid YAML")
	}
}
