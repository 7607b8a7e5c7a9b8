// Package config loads the YAML configuration for the relay process.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration shape.
type Config struct {
	Listen   string        `yaml:"listen"`
	Backend  BackendConfig `yaml:"backend"`
	Poll     time.Duration `yaml:"poll_interval"`
	LogLevel string        `yaml:"log_level"`
}

// BackendConfig configures the JSON-RPC backend adapter connects to.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:6600",
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:8080/jsonrpc",
			Timeout: 5 * time.Second,
		},
		Poll:     time.Second,
		LogLevel: "info",
	}
}

// Load reads configuration from path, falling back to Default when the
// file does not exist. Environment variables MPDRELAY_LISTEN and
// MPDRELAY_BACKEND_URL override the corresponding fields after the file
// is applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading config file %q", path)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", path)
	}

	if v := os.Getenv("MPDRELAY_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("MPDRELAY_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}

	return cfg, nil
}
