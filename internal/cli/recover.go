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
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-quorum/internal/document"
	"github.com/jeremyhahn/go-quorum/pkg/consensus"
	"github.com/jeremyhahn/go-quorum/pkg/correlation"
	"github.com/jeremyhahn/go-quorum/pkg/metrics"
)

var (
	recoverWorkers     int
	recoverTimeout     time.Duration
	recoverMetricsFile string
)

// recoverCmd reconstructs the secret of a share document
var recoverCmd = &cobra.Command{
	Use:   "recover <file>",
	Short: "Recover the secret and report wrong shares",
	Long: `Load a share document (.json, .yaml or .yml), interpolate every
k-subset of its shares and report the majority secret together with any
shares that disagree with it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().IntVar(&recoverWorkers, "workers", 1,
		"goroutines evaluating subsets (-1 for one per CPU)")
	recoverCmd.Flags().DurationVar(&recoverTimeout, "timeout", 0,
		"abort the run after this duration (0 disables)")
	recoverCmd.Flags().StringVar(&recoverMetricsFile, "metrics-file", "",
		"write Prometheus metrics to this file after the run")
}

func runRecover(cmd *cobra.Command, args []string) error {
	cfg := getSettings()
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Consensus.Workers = recoverWorkers
	}
	if flags.Changed("timeout") {
		cfg.Consensus.Timeout = recoverTimeout
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = recoverMetricsFile
		metrics.Enable()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = correlation.Ensure(ctx)
	log := getLogger().WithContext(ctx)

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}
	printVerbose("loaded %d shares from %s", len(doc.Shares), args[0])
	if len(doc.Shares) != doc.N {
		log.Warn("share count differs from n", "n", doc.N, "shares", len(doc.Shares))
	}

	if cfg.Consensus.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Consensus.Timeout)
		defer cancel()
	}

	r := consensus.New(consensus.Options{
		Workers:          cfg.Consensus.Workers,
		CacheLimit:       cfg.Consensus.CacheLimit,
		ProgressInterval: cfg.Consensus.ProgressInterval,
		Logger:           getLogger(),
		Progress: func(done, total int) {
			log.Debug("progress", "done", done, "total", total)
		},
	})
	var sampler *metrics.ResourceSampler
	if metrics.IsEnabled() {
		sampler = metrics.StartResourceSampler(ctx, cfg.Consensus.ProgressInterval)
	}
	res, err := r.Reconstruct(ctx, doc.ConsensusShares(), doc.K)
	if sampler != nil {
		sampler.Stop()
	}

	if path := cfg.Metrics.Textfile; path != "" {
		if werr := metrics.WriteTextfile(path); werr != nil {
			log.Error(werr, "path", path)
		}
	}
	if err != nil {
		return fmt.Errorf("recover %s: %w", args[0], err)
	}

	return NewPrinter(cfg.Output.Format, cmd.OutOrStdout()).PrintReport(doc, res)
}
