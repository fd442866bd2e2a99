package draftflow

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config consolidates settings for the draft orchestrator
type Config struct {
	BatchGroups BatchGroupConfig `json:"batchGroups" yaml:"batchGroups"`
	Protocol    ProtocolConfig   `json:"protocol" yaml:"protocol"`
	Logging     LoggingConfig    `json:"logging" yaml:"logging"`
}

// BatchGroupConfig names the network batch groups the orchestrator submits to.
// Direct carries standalone Edit/Discard calls; Draft carries the combined
// Preparation+Activation changeset. The two must stay distinct.
type BatchGroupConfig struct {
	Direct string `json:"direct" yaml:"direct"`
	Draft  string `json:"draft" yaml:"draft"`
}

// ProtocolConfig contains draft protocol tuning
type ProtocolConfig struct {
	OperationTimeout         time.Duration `json:"operationTimeout" yaml:"operationTimeout"`
	RequestMessagesOnPrepare bool          `json:"requestMessagesOnPrepare" yaml:"requestMessagesOnPrepare"`
	MaxSiblingDepth          int           `json:"maxSiblingDepth" yaml:"maxSiblingDepth"`
}

// UnmarshalYAML accepts Go duration strings ("30s") for operationTimeout and
// leaves absent fields at their current (default) values.
func (p *ProtocolConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		OperationTimeout         string `yaml:"operationTimeout"`
		RequestMessagesOnPrepare *bool  `yaml:"requestMessagesOnPrepare"`
		MaxSiblingDepth          *int   `yaml:"maxSiblingDepth"`
	}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.OperationTimeout != "" {
		d, err := time.ParseDuration(raw.OperationTimeout)
		if err != nil {
			return fmt.Errorf("invalid protocol.operationTimeout: %w", err)
		}
		p.OperationTimeout = d
	}
	if raw.RequestMessagesOnPrepare != nil {
		p.RequestMessagesOnPrepare = *raw.RequestMessagesOnPrepare
	}
	if raw.MaxSiblingDepth != nil {
		p.MaxSiblingDepth = *raw.MaxSiblingDepth
	}
	return nil
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Format      string `json:"format" yaml:"format"`
	Development bool   `json:"development" yaml:"development"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BatchGroups: BatchGroupConfig{
			Direct: BatchGroupDirect,
			Draft:  BatchGroupDraft,
		},
		Protocol: ProtocolConfig{
			OperationTimeout:         30 * time.Second,
			RequestMessagesOnPrepare: true,
			MaxSiblingDepth:          0, // unlimited
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BatchGroups.Direct == "" {
		return &ConfigError{Field: "batchGroups.direct", Message: "must not be empty"}
	}
	if c.BatchGroups.Draft == "" {
		return &ConfigError{Field: "batchGroups.draft", Message: "must not be empty"}
	}
	if c.BatchGroups.Direct == c.BatchGroups.Draft {
		return &ConfigError{Field: "batchGroups.draft", Message: "must differ from batchGroups.direct"}
	}
	if c.Protocol.OperationTimeout <= 0 {
		return &ConfigError{Field: "protocol.operationTimeout", Message: "must be greater than 0"}
	}
	if c.Protocol.MaxSiblingDepth < 0 {
		return &ConfigError{Field: "protocol.maxSiblingDepth", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
