// Package server is the serving boundary: it owns the listener, the
// process-level configuration, and graceful shutdown. The routing core is
// agnostic to everything in this package.
package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the options consumed by the serving boundary. The routing and
// dispatch core never reads it.
type Config struct {
	Port            int    `yaml:"port"`
	Hostname        string `yaml:"hostname"`
	DevelopmentMode bool   `yaml:"development_mode"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Port:     8080,
		Hostname: "0.0.0.0",
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config %s: %w", path, err)
	}

	if config.Port <= 0 || config.Port > 65535 {
		return config, fmt.Errorf("config %s: invalid port %d", path, config.Port)
	}
	return config, nil
}
