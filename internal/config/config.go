package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyzerConfig holds the thresholds and resource settings for the
// aggregation and rule-condensation engine.
type AnalyzerConfig struct {
	IPThreshold        float64 `yaml:"ip_threshold"`
	MinPortShare       float64 `yaml:"min_port_share"`
	TopN               int     `yaml:"top_n"`
	MaxPorts           int     `yaml:"max_ports"`
	MaxRules           int     `yaml:"max_rules"`
	TargetCoverage     float64 `yaml:"target_coverage"`
	NumWorkers         int     `yaml:"num_workers"`
	BatchSize          int     `yaml:"batch_size"`
	SizeOfBatchChannel int     `yaml:"size_of_batch_channel"`
}

// ReportWriterDef defines one report writer from the config file.
type ReportWriterDef struct {
	Type     string `yaml:"type"`
	Enabled  bool   `yaml:"enabled"`
	RootPath string `yaml:"root_path"`
	Interval string `yaml:"interval"`
}

// EngineConfig configures the long-running fw-engine daemon.
type EngineConfig struct {
	// Period is the measurement period after which tables are reset.
	// Empty disables periodic resets.
	Period  string            `yaml:"period"`
	Writers []ReportWriterDef `yaml:"writers"`
}

// ProbeConfig configures the NATS record transport.
type ProbeConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// APIConfig configures the HTTP API server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ClickHouseConfig configures the ClickHouse record source.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Table    string `yaml:"table"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Engine     EngineConfig     `yaml:"engine"`
	Probe      ProbeConfig      `yaml:"probe"`
	API        APIConfig        `yaml:"api"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
