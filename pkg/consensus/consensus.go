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

// Package consensus reconstructs a Shamir secret from n shares and detects
// corrupted shares by majority vote.
//
// Every k-subset of the shares is interpolated at zero. When more than k
// shares are available each subset should yield the same secret; the value
// produced by the most subsets wins, and any share that is not a member of
// at least one winning subset is reported as wrong.
//
// Example:
//
//	r := consensus.New(consensus.Options{Workers: 4})
//	res, err := r.Reconstruct(ctx, shares, 3)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Secret, res.WrongShares)
package consensus

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
	"github.com/jeremyhahn/go-quorum/pkg/combination"
	"github.com/jeremyhahn/go-quorum/pkg/correlation"
	"github.com/jeremyhahn/go-quorum/pkg/field"
	"github.com/jeremyhahn/go-quorum/pkg/logging"
	"github.com/jeremyhahn/go-quorum/pkg/metrics"
)

const (
	// DefaultCacheLimit is the largest C(n,k) for which first-pass secrets
	// are kept in memory for the classification pass.
	DefaultCacheLimit = 1 << 16

	// DefaultProgressInterval throttles progress callbacks.
	DefaultProgressInterval = time.Second
)

// Share is one (id, value) pair: x = ID, y = Value.
type Share struct {
	ID    int        `json:"id"`
	Value bigint.Int `json:"value"`
}

// Point returns the share as an interpolation point.
func (s Share) Point() field.Point {
	return field.Point{X: bigint.FromInt64(int64(s.ID)), Y: s.Value}
}

// Options configures a Reconstructor.
type Options struct {
	// Workers is the number of goroutines evaluating subsets. Values below
	// one mean one; a negative value selects runtime.NumCPU().
	Workers int

	// CacheLimit bounds the first-pass cache (see DefaultCacheLimit). Zero
	// selects the default; a negative value disables caching.
	CacheLimit int

	// Progress, when set, receives (done, total) subset counts at most once
	// per ProgressInterval during each pass.
	Progress func(done, total int)

	// ProgressInterval defaults to DefaultProgressInterval.
	ProgressInterval time.Duration

	// Prime overrides the field modulus. The zero value selects field.Prime.
	Prime bigint.Int

	// Logger defaults to a discarding logger.
	Logger *logging.Logger
}

// Reconstructor runs the consensus protocol. It holds no per-run state and
// is safe for concurrent use.
type Reconstructor struct {
	opts Options
}

// New creates a Reconstructor, applying defaults to opts.
func New(opts Options) *Reconstructor {
	switch {
	case opts.Workers < 0:
		opts.Workers = runtime.NumCPU()
	case opts.Workers == 0:
		opts.Workers = 1
	}
	if opts.CacheLimit == 0 {
		opts.CacheLimit = DefaultCacheLimit
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.Prime.IsZero() {
		opts.Prime = field.Prime
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Reconstructor{opts: opts}
}

// TieBreak returns the policy this reconstructor applies.
func (r *Reconstructor) TieBreak() TieBreak {
	if r.opts.Workers > 1 {
		return TieBreakSmallestSecret
	}
	return TieBreakFirstSeen
}

// run is the mutable state of one Reconstruct call.
type run struct {
	shares []Share
	points []field.Point
	n, k   int
	total  int
	log    *logging.Logger

	// cache holds first-pass results by ordinal when enabled
	cache   []bigint.Int
	cacheOK []bool
}

// workerStats are per-goroutine counters summed after a pass.
type workerStats struct {
	tally   *Tally
	voted   int
	skipped int
	valid   []bool
}

// Reconstruct recovers the majority secret of shares for threshold k and
// classifies every share. ctx bounds the whole enumeration.
func (r *Reconstructor) Reconstruct(ctx context.Context, shares []Share, k int) (*Result, error) {
	start := time.Now()
	mode := metrics.ModeSequential
	if r.opts.Workers > 1 {
		mode = metrics.ModeParallel
	}

	res, err := r.reconstruct(ctx, shares, k)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordRun(metrics.StatusError, mode, elapsed.Seconds())
		return nil, err
	}
	res.Elapsed = elapsed
	metrics.RecordRun(metrics.StatusSuccess, mode, elapsed.Seconds())
	metrics.SetDecision(len(res.Candidates), len(res.WrongShares), res.Percent()/100)
	return res, nil
}

func (r *Reconstructor) reconstruct(ctx context.Context, shares []Share, k int) (*Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, k)
	}
	n := len(shares)
	if n < k {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientPoints, k, n)
	}
	if err := checkIDs(shares); err != nil {
		return nil, err
	}
	total, ok := combination.Count(n, k).Int64()
	if !ok || total > int64(maxInt) {
		return nil, fmt.Errorf("%w: C(%d,%d)", ErrTooManySubsets, n, k)
	}

	ru := &run{
		shares: shares,
		points: make([]field.Point, n),
		n:      n,
		k:      k,
		total:  int(total),
		log:    r.opts.Logger.WithContext(ctx),
	}
	for i, s := range shares {
		ru.points[i] = s.Point()
	}
	if r.opts.CacheLimit > 0 && ru.total <= r.opts.CacheLimit {
		ru.cache = make([]bigint.Int, ru.total)
		ru.cacheOK = make([]bool, ru.total)
	}
	policy := r.TieBreak()
	ru.log.Debug("starting reconstruction",
		"n", n, "k", k, "subsets", ru.total, "workers", r.opts.Workers, "tie_break", policy.String())

	// Pass 1: vote.
	stats := r.newStats(0)
	if err := r.forEachSubset(ctx, ru, func(w, ordinal int, subset []int) {
		secret, err := r.evaluate(ru, subset)
		if ru.cache != nil {
			ru.cache[ordinal], ru.cacheOK[ordinal] = secret, err == nil
		}
		if err != nil {
			stats[w].skipped++
			metrics.RecordSubsetError(errorType(err))
			ru.log.Debug("subset skipped", "subset", shareIDs(ru.shares, subset), "error", err)
			return
		}
		stats[w].voted++
		stats[w].tally.Add(secret, ordinal, subset)
		if ru.log.DebugEnabled() {
			ru.log.Debug("subset reconstructed", "subset", shareIDs(ru.shares, subset), "secret", secret.String())
		}
	}); err != nil {
		return nil, fmt.Errorf("consensus: enumeration interrupted: %w", err)
	}

	tally := NewTally()
	voted, skipped := 0, 0
	for _, s := range stats {
		tally.Merge(s.tally)
		voted += s.voted
		skipped += s.skipped
	}
	metrics.RecordSubsets(metrics.OutcomeVoted, voted)
	metrics.RecordSubsets(metrics.OutcomeSkipped, skipped)

	winner, ok := tally.Majority(policy)
	if !ok {
		return nil, fmt.Errorf("%w: %d of %d subsets failed", ErrNoConsensus, skipped, ru.total)
	}
	ru.log.Info("majority secret selected",
		"secret", winner.Secret.String(), "agreeing", winner.Count, "subsets", ru.total, "candidates", tally.Len())

	// Pass 2: classify shares by membership in an agreeing subset.
	valid, err := r.classify(ctx, ru, winner.Secret)
	if err != nil {
		return nil, fmt.Errorf("consensus: classification interrupted: %w", err)
	}

	res := &Result{
		RunID:    correlation.RunID(ctx),
		N:        n,
		K:        k,
		Secret:   winner.Secret,
		Agreeing: winner.Count,
		Total:    ru.total,
		Voted:    voted,
		Skipped:  skipped,
		TieBreak: policy,
		Workers:  r.opts.Workers,
	}
	for i, s := range shares {
		if valid[i] {
			res.ValidShares = append(res.ValidShares, s.ID)
		} else {
			res.WrongShares = append(res.WrongShares, s.ID)
		}
	}
	for _, c := range tally.Candidates(policy) {
		c.Exemplar = shareIDs(shares, c.Exemplar)
		res.Candidates = append(res.Candidates, c)
	}
	if len(res.WrongShares) > 0 {
		ru.log.Warn("wrong shares detected", "shares", res.WrongShares)
	}
	return res, nil
}

// classify marks every share that belongs to a subset reconstructing secret.
func (r *Reconstructor) classify(ctx context.Context, ru *run, secret bigint.Int) ([]bool, error) {
	stats := r.newStats(ru.n)
	err := r.forEachSubset(ctx, ru, func(w, ordinal int, subset []int) {
		var got bigint.Int
		if ru.cache != nil {
			if !ru.cacheOK[ordinal] {
				return
			}
			got = ru.cache[ordinal]
		} else {
			var err error
			if got, err = r.evaluate(ru, subset); err != nil {
				return
			}
		}
		if got.Equal(secret) {
			for _, idx := range subset {
				stats[w].valid[idx] = true
			}
		}
	})
	if err != nil {
		return nil, err
	}

	valid := make([]bool, ru.n)
	for _, s := range stats {
		for i, v := range s.valid {
			valid[i] = valid[i] || v
		}
	}
	return valid, nil
}

// evaluate interpolates the subset at zero.
func (r *Reconstructor) evaluate(ru *run, subset []int) (bigint.Int, error) {
	points := make([]field.Point, len(subset))
	for i, idx := range subset {
		points[i] = ru.points[idx]
	}
	return field.InterpolateAtZeroMod(points, r.opts.Prime)
}

func (r *Reconstructor) newStats(n int) []workerStats {
	stats := make([]workerStats, r.opts.Workers)
	for i := range stats {
		stats[i].tally = NewTally()
		if n > 0 {
			stats[i].valid = make([]bool, n)
		}
	}
	return stats
}

// forEachSubset calls fn for every subset. In sequential mode subsets arrive
// in lexicographic order and the subset slice is reused between calls; fn
// must not retain it. In parallel mode fn runs on Workers goroutines and
// must only touch state indexed by its worker number.
func (r *Reconstructor) forEachSubset(ctx context.Context, ru *run, fn func(worker, ordinal int, subset []int)) error {
	tick := r.progress(ru.total)
	defer tick(true)

	if r.opts.Workers <= 1 {
		e := combination.New(ru.n, ru.k)
		for ordinal := 0; e.Next(); ordinal++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(0, ordinal, e.Indices())
			tick(false)
		}
		return nil
	}

	type job struct {
		ordinal int
		subset  []int
	}
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job, r.opts.Workers*4)

	g.Go(func() error {
		defer close(jobs)
		for ordinal, subset := range combination.All(ru.n, ru.k) {
			select {
			case jobs <- job{ordinal: ordinal, subset: subset}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < r.opts.Workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(w, j.ordinal, j.subset)
				tick(false)
			}
			return nil
		})
	}
	return g.Wait()
}

// progress returns a goroutine-safe tick function. tick(true) reports the
// final count unconditionally.
func (r *Reconstructor) progress(total int) func(final bool) {
	if r.opts.Progress == nil {
		return func(bool) {}
	}
	var done atomic.Int64
	sometimes := &rate.Sometimes{First: 1, Interval: r.opts.ProgressInterval}
	return func(final bool) {
		if final {
			r.opts.Progress(int(done.Load()), total)
			return
		}
		d := done.Add(1)
		sometimes.Do(func() { r.opts.Progress(int(d), total) })
	}
}

// checkIDs rejects non-positive and repeated share IDs.
func checkIDs(shares []Share) error {
	seen := make(map[int]struct{}, len(shares))
	for _, s := range shares {
		if s.ID < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidShareID, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateShare, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// shareIDs maps share indices to share IDs.
func shareIDs(shares []Share, subset []int) []int {
	ids := make([]int, len(subset))
	for i, idx := range subset {
		ids[i] = shares[idx].ID
	}
	return ids
}

const maxInt = int(^uint(0) >> 1)
