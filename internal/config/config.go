// Package config holds run defaults, optionally read from a YAML file.
// Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all orfset defaults.
type Config struct {
	// Neighborhood window
	Left  int `yaml:"left"`
	Right int `yaml:"right"`

	// Random seed for peg/region selection and balancing (0 = fresh seed each run)
	Seed uint64 `yaml:"seed"`

	StartTrain StartTrainConfig `yaml:"strain"`
	OrfTrain   OrfTrainConfig   `yaml:"otrain"`

	Logging LoggingConfig `yaml:"logging"`
}

// StartTrainConfig configures start-codon training sets.
type StartTrainConfig struct {
	Num  int     `yaml:"num"`  // pegs per genome
	Fuzz float64 `yaml:"fuzz"` // majority:minority label ratio (0 = unbalanced)
}

// OrfTrainConfig configures coding-ORF training sets.
type OrfTrainConfig struct {
	Num   int     `yaml:"num"`   // regions per genome
	Width int     `yaml:"width"` // region width in bases
	Fuzz  float64 `yaml:"fuzz"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Left:  52,
		Right: 20,
		StartTrain: StartTrainConfig{
			Num:  2,
			Fuzz: 2.0,
		},
		OrfTrain: OrfTrainConfig{
			Num:   3,
			Width: 5000,
			Fuzz:  2.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file over the defaults. An empty path
// or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
