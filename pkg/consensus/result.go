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

package consensus

import (
	"time"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
)

// Result is the outcome of a reconstruction run.
type Result struct {
	// RunID correlates log lines and reports of one run
	RunID string `json:"run_id,omitempty"`

	// N is the number of shares supplied and K the threshold
	N int `json:"n"`
	K int `json:"k"`

	// Secret is the majority secret
	Secret bigint.Int `json:"secret"`

	// Agreeing is the number of subsets that reconstructed Secret
	Agreeing int `json:"agreeing"`

	// Total is C(N, K), the number of subsets tried
	Total int `json:"total"`

	// Voted is the number of subsets whose interpolation succeeded
	Voted int `json:"voted"`

	// Skipped is the number of degenerate or failed subsets
	Skipped int `json:"skipped"`

	// WrongShares lists IDs of shares outside every agreeing subset
	WrongShares []int `json:"wrong_shares"`

	// ValidShares lists IDs of shares in at least one agreeing subset
	ValidShares []int `json:"valid_shares"`

	// Candidates lists every distinct secret, best first
	Candidates []Candidate `json:"candidates"`

	// TieBreak is the policy applied between equally voted candidates
	TieBreak TieBreak `json:"tie_break"`

	// Workers is the number of goroutines that evaluated subsets
	Workers int `json:"workers"`

	// Elapsed is the wall time of the run
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Percent returns the share of subsets agreeing with the secret, 0-100.
func (r *Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Agreeing) / float64(r.Total)
}

// Consistent reports whether no share was flagged as wrong.
func (r *Result) Consistent() bool {
	return len(r.WrongShares) == 0
}
