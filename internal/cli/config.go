package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VerifyConfig represents the YAML configuration for the verify command.
type VerifyConfig struct {
	// CAFile is the trusted CA bundle path.
	CAFile string `yaml:"ca_file"`

	// ChainFile is an optional peer certificate chain to augment the
	// response's embedded certificates with.
	ChainFile string `yaml:"chain_file"`

	// AuditLog is an optional JSONL audit log path.
	AuditLog string `yaml:"audit_log"`
}

// LoadVerifyConfig loads verify configuration from a YAML file.
func LoadVerifyConfig(path string) (*VerifyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg VerifyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *VerifyConfig) Validate() error {
	if c.CAFile == "" {
		return fmt.Errorf("ca_file is required")
	}
	return nil
}
