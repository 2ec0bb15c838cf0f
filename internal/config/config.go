// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-quorum.
//
// go-quorum is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads quorum settings from a YAML file and QUORUM_*
// environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete quorum configuration
type Config struct {
	Consensus ConsensusConfig `yaml:"consensus"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Output    OutputConfig    `yaml:"output"`
}

// ConsensusConfig controls the reconstruction engine
type ConsensusConfig struct {
	Workers          int           `yaml:"workers"`           // -1 selects one worker per CPU
	Timeout          time.Duration `yaml:"timeout"`           // 0 disables the deadline
	CacheLimit       int           `yaml:"cache_limit"`       // -1 disables the first-pass cache
	ProgressInterval time.Duration `yaml:"progress_interval"` // throttle for progress logging
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls metrics collection
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"` // node_exporter textfile output
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Consensus: ConsensusConfig{
			Workers:          1,
			Timeout:          0,
			CacheLimit:       1 << 16,
			ProgressInterval: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults and
// applies environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by the user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	// Consensus
	if v := os.Getenv("QUORUM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Warning: invalid QUORUM_WORKERS value %q, using %d: %v",
				v, cfg.Consensus.Workers, err)
		} else {
			cfg.Consensus.Workers = n
		}
	}
	if v := os.Getenv("QUORUM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Warning: invalid QUORUM_TIMEOUT value %q, using %s: %v",
				v, cfg.Consensus.Timeout, err)
		} else {
			cfg.Consensus.Timeout = d
		}
	}
	if v := os.Getenv("QUORUM_CACHE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Warning: invalid QUORUM_CACHE_LIMIT value %q, using %d: %v",
				v, cfg.Consensus.CacheLimit, err)
		} else {
			cfg.Consensus.CacheLimit = n
		}
	}
	if v := os.Getenv("QUORUM_PROGRESS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("Warning: invalid QUORUM_PROGRESS_INTERVAL value %q, using %s: %v",
				v, cfg.Consensus.ProgressInterval, err)
		} else {
			cfg.Consensus.ProgressInterval = d
		}
	}

	// Logging
	if level := os.Getenv("QUORUM_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("QUORUM_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	// Metrics
	if v := os.Getenv("QUORUM_METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Warning: invalid QUORUM_METRICS_ENABLED value %q, using %t: %v",
				v, cfg.Metrics.Enabled, err)
		} else {
			cfg.Metrics.Enabled = enabled
		}
	}
	if path := os.Getenv("QUORUM_METRICS_TEXTFILE"); path != "" {
		cfg.Metrics.Textfile = path
	}

	// Output
	if format := os.Getenv("QUORUM_OUTPUT"); format != "" {
		cfg.Output.Format = format
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate consensus settings
	if c.Consensus.Workers < -1 {
		return fmt.Errorf("invalid workers: %d (must be -1 or greater)", c.Consensus.Workers)
	}
	if c.Consensus.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Consensus.Timeout)
	}
	if c.Consensus.CacheLimit < -1 {
		return fmt.Errorf("invalid cache_limit: %d (must be -1 or greater)", c.Consensus.CacheLimit)
	}
	if c.Consensus.ProgressInterval < 0 {
		return fmt.Errorf("invalid progress_interval: %s", c.Consensus.ProgressInterval)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"text": true, "json": true, "table": true,
	}
	if !validOutputs[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("invalid output format: %s (must be text, json, or table)", c.Output.Format)
	}

	// Validate metrics
	if c.Metrics.Textfile != "" && !c.Metrics.Enabled {
		return fmt.Errorf("metrics textfile requires metrics to be enabled")
	}

	return nil
}
