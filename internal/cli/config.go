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

package cli

import (
	"os"

	"github.com/jeremyhahn/go-quorum/internal/config"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
		Verbose:      false,
	}
}

// ConfigPath returns the configuration file to load: the --config flag,
// then $QUORUM_CONFIG. Empty means built-in defaults only.
func (c *Config) ConfigPath() string {
	if c.ConfigFile != "" {
		return c.ConfigFile
	}
	return os.Getenv("QUORUM_CONFIG")
}

// Resolve loads the configuration file and environment, then applies the
// global flags. outputSet reports whether --output was given explicitly.
func (c *Config) Resolve(outputSet bool) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath())
	if err != nil {
		return nil, err
	}
	if outputSet {
		cfg.Output.Format = c.OutputFormat
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
