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

// Package combination enumerates the k-element subsets of {0, ..., n-1} in
// lexicographic order without recursion.
package combination

import (
	"iter"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
)

// Count returns the binomial coefficient C(n, k). It is zero when k < 0 or
// k > n.
func Count(n, k int) bigint.Int {
	if k < 0 || n < 0 || k > n {
		return bigint.Zero()
	}
	if k > n-k {
		k = n - k
	}
	// C(n, i) = C(n, i-1) * (n-i+1) / i is always exact.
	c := bigint.One()
	for i := 1; i <= k; i++ {
		c, _ = c.Mul(bigint.FromInt64(int64(n - k + i))).Quo(bigint.FromInt64(int64(i)))
	}
	return c
}

// Enumerator is an explicit-state iterator over combinations. The zero value
// is not usable; construct with New.
//
// Example:
//
//	e := combination.New(4, 2)
//	for e.Next() {
//	    fmt.Println(e.Indices()) // [0 1] [0 2] [0 3] [1 2] [1 3] [2 3]
//	}
type Enumerator struct {
	n, k    int
	current []int
	started bool
	done    bool
}

// New returns an Enumerator over the k-subsets of [0, n).
func New(n, k int) *Enumerator {
	e := &Enumerator{n: n, k: k}
	e.Reset()
	return e
}

// Reset rewinds the enumerator to before the first combination.
func (e *Enumerator) Reset() {
	e.current = make([]int, max(e.k, 0))
	e.started = false
	e.done = e.k <= 0 || e.k > e.n
}

// Next advances to the next combination and reports whether one exists.
func (e *Enumerator) Next() bool {
	if e.done {
		return false
	}
	if !e.started {
		for i := range e.current {
			e.current[i] = i
		}
		e.started = true
		return true
	}

	// Find the rightmost position that can still move right; position i can
	// hold at most n-k+i.
	i := e.k - 1
	for i >= 0 && e.current[i] == e.n-e.k+i {
		i--
	}
	if i < 0 {
		e.done = true
		return false
	}
	e.current[i]++
	for j := i + 1; j < e.k; j++ {
		e.current[j] = e.current[j-1] + 1
	}
	return true
}

// Indices returns the current combination. The slice is owned by the
// enumerator and is overwritten by the next call to Next.
func (e *Enumerator) Indices() []int {
	return e.current
}

// All returns every k-subset of [0, n) paired with its zero-based ordinal
// in lexicographic order. Each yielded slice is a fresh copy.
func All(n, k int) iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		e := New(n, k)
		for ordinal := 0; e.Next(); ordinal++ {
			subset := make([]int, k)
			copy(subset, e.Indices())
			if !yield(ordinal, subset) {
				return
			}
		}
	}
}
