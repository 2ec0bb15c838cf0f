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
	"slices"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
)

// TieBreak selects the winner among candidates with equal vote counts.
type TieBreak int

const (
	// TieBreakFirstSeen prefers the candidate reached by the earliest subset
	// in lexicographic enumeration order.
	TieBreakFirstSeen TieBreak = iota

	// TieBreakSmallestSecret prefers the numerically smallest secret. It does
	// not depend on evaluation order, so it is used for parallel runs.
	TieBreakSmallestSecret
)

// String returns the policy name.
func (t TieBreak) String() string {
	switch t {
	case TieBreakFirstSeen:
		return "first-seen"
	case TieBreakSmallestSecret:
		return "smallest-secret"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TieBreak) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Candidate is one distinct secret and the subsets that voted for it.
type Candidate struct {
	// Secret is the reconstructed value
	Secret bigint.Int `json:"secret"`

	// Count is the number of subsets that reconstructed Secret
	Count int `json:"count"`

	// Exemplar is the lexicographically first subset that reconstructed
	// Secret. Inside a Tally it holds share indices; in a Result it holds
	// share IDs.
	Exemplar []int `json:"exemplar"`

	// FirstOrdinal is the enumeration ordinal of Exemplar
	FirstOrdinal int `json:"-"`
}

// Tally counts votes per candidate secret, keyed by canonical decimal string.
// Merge is commutative and associative, so per-worker tallies can be combined
// in any order.
type Tally struct {
	candidates map[string]*Candidate
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{candidates: make(map[string]*Candidate)}
}

// Add records one vote for secret from the subset at ordinal. subset is
// copied only when it becomes the candidate's exemplar.
func (t *Tally) Add(secret bigint.Int, ordinal int, subset []int) {
	key := secret.String()
	c, ok := t.candidates[key]
	if !ok {
		t.candidates[key] = &Candidate{
			Secret:       secret,
			Count:        1,
			Exemplar:     slices.Clone(subset),
			FirstOrdinal: ordinal,
		}
		return
	}
	c.Count++
	if ordinal < c.FirstOrdinal {
		c.FirstOrdinal = ordinal
		c.Exemplar = slices.Clone(subset)
	}
}

// Merge folds other into t.
func (t *Tally) Merge(other *Tally) {
	for key, oc := range other.candidates {
		c, ok := t.candidates[key]
		if !ok {
			cp := *oc
			cp.Exemplar = slices.Clone(oc.Exemplar)
			t.candidates[key] = &cp
			continue
		}
		c.Count += oc.Count
		if oc.FirstOrdinal < c.FirstOrdinal {
			c.FirstOrdinal = oc.FirstOrdinal
			c.Exemplar = slices.Clone(oc.Exemplar)
		}
	}
}

// Len returns the number of distinct candidates.
func (t *Tally) Len() int {
	return len(t.candidates)
}

// Votes returns the total number of votes recorded.
func (t *Tally) Votes() int {
	total := 0
	for _, c := range t.candidates {
		total += c.Count
	}
	return total
}

// Candidates returns every candidate ordered best first: by vote count
// descending, then by the tie-break policy.
func (t *Tally) Candidates(policy TieBreak) []Candidate {
	out := make([]Candidate, 0, len(t.candidates))
	for _, c := range t.candidates {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b Candidate) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return compareTie(a, b, policy)
	})
	return out
}

// Majority returns the winning candidate, or false for an empty tally.
func (t *Tally) Majority(policy TieBreak) (Candidate, bool) {
	var best *Candidate
	for _, c := range t.candidates {
		if best == nil || c.Count > best.Count || (c.Count == best.Count && compareTie(*c, *best, policy) < 0) {
			best = c
		}
	}
	if best == nil {
		return Candidate{}, false
	}
	return *best, true
}

func compareTie(a, b Candidate, policy TieBreak) int {
	if policy == TieBreakSmallestSecret {
		if c := a.Secret.Cmp(b.Secret); c != 0 {
			return c
		}
	}
	return a.FirstOrdinal - b.FirstOrdinal
}
