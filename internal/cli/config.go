package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config supplies defaults for command line flags.
type Config struct {
	Mapping  string `yaml:"mapping,omitempty"`
	Scope    string `yaml:"scope,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Naming   string `yaml:"naming,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`
	Strict   bool   `yaml:"strict,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}

	return cfg, nil
}
