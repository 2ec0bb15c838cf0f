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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-quorum/internal/config"
	"github.com/jeremyhahn/go-quorum/pkg/logging"
	"github.com/jeremyhahn/go-quorum/pkg/metrics"
)

var (
	// Global configuration
	globalConfig *Config

	// settings is the merged file, environment and flag configuration
	settings *config.Config

	// logger writes diagnostics to stderr
	logger *logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "quorum - threshold secret recovery with wrong-share detection",
	Long: `quorum reconstructs a Shamir-style (k, n) threshold secret from a
document of shares and reports which shares disagree with the majority.

Every k-subset of the shares is interpolated at zero over the prime field
2^127 - 1. The secret produced by the most subsets wins; shares that never
take part in a winning subset are reported as wrong.

Supported document shapes:
  - expression: {"n", "k", "shares": [{"id", "value"}]} with values such as
                sum(a,b), multiply(a,b), divide(a,b), power(a,b), lcm(a,b),
                gcd(a,b) or a plain integer
  - keyed:      {"keys": {"n", "k"}, "<id>": {"base", "value"}} with values
                written in bases 2 to 36`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Initialize global config
	globalConfig = NewConfig()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&globalConfig.ConfigFile, "config", "",
		"config file (default is $QUORUM_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.OutputFormat, "output", "o", "text",
		"output format (text, json, table)")
	rootCmd.PersistentFlags().BoolVarP(&globalConfig.Verbose, "verbose", "v", false,
		"verbose output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(evalCmd)
}

// initRuntime loads settings, applies command-line overrides and prepares
// the logger and metrics switch.
func initRuntime(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	cfg, err := globalConfig.Resolve(flags.Changed("output"))
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	settings = cfg
	logger = log
	return nil
}

// getConfig returns the global configuration
func getConfig() *Config {
	return globalConfig
}

// getSettings returns the resolved settings, or the defaults when the root
// pre-run has not executed.
func getSettings() *config.Config {
	if settings == nil {
		return config.Default()
	}
	return settings
}

// getLogger returns the runtime logger
func getLogger() *logging.Logger {
	if logger == nil {
		return logging.Discard()
	}
	return logger
}

// HandleError prints an error and exits with code 1
func HandleError(err error) {
	format := getConfig().OutputFormat
	if settings != nil {
		format = settings.Output.Format
	}
	printer := NewPrinter(format, os.Stderr)
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if globalConfig.Verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
