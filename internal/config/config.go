package config

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"
)

// GeneratorConfig holds the run-wide generation defaults.
type GeneratorConfig struct {
	Seed   int64  `yaml:"seed"`
	Start  string `yaml:"start_time"`
	Output string `yaml:"output"`
}

// RelayConfig holds the NATS settings shared by publishers and subscribers.
type RelayConfig struct {
	NATSURL    string            `yaml:"nats_url"`
	Subject    string            `yaml:"subject"`
	MaxPayload datasize.ByteSize `yaml:"max_payload"`
}

// SinkConfig holds the settings of the capture sink service.
type SinkConfig struct {
	Output string `yaml:"output"`
}

// JSONLConfig holds the settings for the JSONL run recorder.
type JSONLConfig struct {
	Path string `yaml:"path"`
}

// ClickHouseConfig holds the connection settings for the ClickHouse recorder.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RecorderDef defines a single run-history recorder.
type RecorderDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	JSONL      JSONLConfig      `yaml:"jsonl"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// APIConfig holds the settings of the HTTP API service.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// BrowsingDef defines a browsing scenario from the config file.
type BrowsingDef struct {
	Client     string `yaml:"client"`
	ClientBase string `yaml:"client_base"`
	Users      int    `yaml:"users"`
	Pages      int    `yaml:"pages"`
	Resolver   string `yaml:"resolver"`
	Verbose    bool   `yaml:"verbose"`
}

// SYNFloodDef defines a SYN flood scenario from the config file.
type SYNFloodDef struct {
	Victim    string   `yaml:"victim"`
	Port      uint16   `yaml:"port"`
	Ports     []uint16 `yaml:"ports"`
	Attackers int      `yaml:"attackers"`
	Window    string   `yaml:"window"`
}

// IntrusionDef defines an intrusion scenario from the config file.
type IntrusionDef struct {
	Victim    string `yaml:"victim"`
	Attacker  string `yaml:"attacker"`
	Server    string `yaml:"server"`
	Downloads int    `yaml:"downloads"`
}

// ScenarioDef defines a single scenario from the config file. Seed and Start
// override the generator-wide values when set.
type ScenarioDef struct {
	Name      string       `yaml:"name"`
	Type      string       `yaml:"type"`
	Seed      *int64       `yaml:"seed"`
	Start     string       `yaml:"start_time"`
	Browsing  BrowsingDef  `yaml:"browsing"`
	SYNFlood  SYNFloodDef  `yaml:"synflood"`
	Intrusion IntrusionDef `yaml:"intrusion"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Relay     RelayConfig     `yaml:"relay"`
	Sink      SinkConfig      `yaml:"sink"`
	Recorders []RecorderDef   `yaml:"recorders"`
	API       APIConfig       `yaml:"api"`
	Scenarios []ScenarioDef   `yaml:"scenarios"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
