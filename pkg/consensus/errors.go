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
	"errors"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
	"github.com/jeremyhahn/go-quorum/pkg/field"
)

var (
	// ErrInvalidThreshold indicates a threshold below one
	ErrInvalidThreshold = errors.New("consensus: threshold must be at least 1")

	// ErrInsufficientPoints indicates fewer shares than the threshold
	ErrInsufficientPoints = errors.New("consensus: insufficient points")

	// ErrDuplicateShare indicates two shares carrying the same ID
	ErrDuplicateShare = errors.New("consensus: duplicate share id")

	// ErrInvalidShareID indicates a share ID below one
	ErrInvalidShareID = errors.New("consensus: share id must be at least 1")

	// ErrNoConsensus indicates that no subset produced a usable secret
	ErrNoConsensus = errors.New("consensus: no subset reconstructed a secret")

	// ErrTooManySubsets indicates C(n,k) does not fit in a machine integer
	ErrTooManySubsets = errors.New("consensus: too many subsets to enumerate")
)

// errorType maps a per-subset failure to a metrics label.
func errorType(err error) string {
	switch {
	case errors.Is(err, field.ErrDegenerate):
		return "degenerate"
	case errors.Is(err, bigint.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, field.ErrNoPoints):
		return "no_points"
	default:
		return "other"
	}
}
