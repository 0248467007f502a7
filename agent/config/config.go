package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var defaultConfigPaths = []string{
	"./agent.yaml",
	"/etc/relaydeck/agent.yaml",
}

type Config struct {
	CoordinatorURL    string        `yaml:"coordinator_url"`
	HeartbeatInterval time.Duration `yaml:"-"`
	RetryBackoff      time.Duration `yaml:"-"`
	ExecTimeout       time.Duration `yaml:"-"`
	LogPath           string        `yaml:"log_path"`
}

// UnmarshalYAML decodes duration fields from strings like "2s"; yaml has no
// native duration type.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		CoordinatorURL    string `yaml:"coordinator_url"`
		HeartbeatInterval string `yaml:"heartbeat_interval"`
		RetryBackoff      string `yaml:"retry_backoff"`
		ExecTimeout       string `yaml:"exec_timeout"`
		LogPath           string `yaml:"log_path"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.CoordinatorURL = raw.CoordinatorURL
	c.LogPath = raw.LogPath

	for _, field := range []struct {
		name string
		in   string
		out  *time.Duration
	}{
		{"heartbeat_interval", raw.HeartbeatInterval, &c.HeartbeatInterval},
		{"retry_backoff", raw.RetryBackoff, &c.RetryBackoff},
		{"exec_timeout", raw.ExecTimeout, &c.ExecTimeout},
	} {
		if field.in == "" {
			continue
		}
		d, err := time.ParseDuration(field.in)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field.name, err)
		}
		*field.out = d
	}

	return nil
}

func Load(path string) (*Config, error) {
	var configPath string

	if path != "" {
		configPath = path
	} else {
		for _, p := range defaultConfigPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	if configPath == "" {
		return nil, fmt.Errorf("config file not found in default paths")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Set defaults
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = 2 * time.Second
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 5 * time.Second
	}
	if cfg.ExecTimeout == 0 {
		cfg.ExecTimeout = 30 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.CoordinatorURL == "" {
		return fmt.Errorf("coordinator_url is required")
	}
	return nil
}
