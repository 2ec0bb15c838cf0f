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

// Package metrics provides Prometheus instrumentation for secret
// reconstruction runs. It counts evaluated subsets by outcome, times whole
// runs, and exposes gauges describing the last consensus decision.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all quorum metrics
	Namespace = "quorum"

	// Label names
	LabelStatus    = "status"
	LabelOutcome   = "outcome"
	LabelErrorType = "error_type"
	LabelMode      = "mode"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Subset outcomes
	OutcomeVoted   = "voted"
	OutcomeSkipped = "skipped"

	// Execution modes
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

var (
	// RunsTotal tracks reconstruction runs by status and execution mode.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Total number of reconstruction runs by status and mode",
		},
		[]string{LabelStatus, LabelMode},
	)

	// RunDuration tracks the wall time of reconstruction runs in seconds.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of reconstruction runs in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
		[]string{LabelMode},
	)

	// SubsetsTotal tracks evaluated share subsets by outcome. A subset votes
	// when interpolation succeeds and is skipped otherwise.
	SubsetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "subsets_total",
			Help:      "Total number of share subsets evaluated by outcome",
		},
		[]string{LabelOutcome},
	)

	// SubsetErrorsTotal tracks skipped subsets by error type
	// (e.g. "degenerate", "division_by_zero").
	SubsetErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "subset_errors_total",
			Help:      "Total number of subsets skipped by error type",
		},
		[]string{LabelErrorType},
	)

	// CandidateSecrets is the number of distinct secrets seen in the last run.
	CandidateSecrets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "candidate_secrets",
			Help:      "Number of distinct candidate secrets in the last run",
		},
	)

	// WrongShares is the number of shares flagged as corrupted in the last run.
	WrongShares = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "wrong_shares",
			Help:      "Number of shares flagged as wrong in the last run",
		},
	)

	// AgreementRatio is the fraction of subsets agreeing with the majority
	// secret in the last run.
	AgreementRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "agreement_ratio",
			Help:      "Fraction of subsets that reconstructed the majority secret in the last run",
		},
	)

	// PeakGoroutines is the highest goroutine count sampled during the last run.
	PeakGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_peak_goroutines",
			Help:      "Highest goroutine count sampled during the last run",
		},
	)

	// PeakHeapBytes is the largest heap allocation sampled during the last run.
	PeakHeapBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_peak_heap_bytes",
			Help:      "Largest heap allocation in bytes sampled during the last run",
		},
	)

	// GCPauseTotalSeconds is the cumulative GC pause time at the end of the last run.
	GCPauseTotalSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gc_pause_total_seconds",
			Help:      "Cumulative garbage collection pause time in seconds",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	enabled.Store(true)
}

// RecordRun records a finished reconstruction run.
//
// Parameters:
//   - status: StatusSuccess or StatusError
//   - mode: ModeSequential or ModeParallel
//   - duration: run duration in seconds
func RecordRun(status, mode string, duration float64) {
	if !enabled.Load() {
		return
	}
	RunsTotal.WithLabelValues(status, mode).Inc()
	RunDuration.WithLabelValues(mode).Observe(duration)
}

// RecordSubsets adds n evaluated subsets with the given outcome.
func RecordSubsets(outcome string, n int) {
	if !enabled.Load() || n <= 0 {
		return
	}
	SubsetsTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordSubsetError records a skipped subset and why it was skipped.
func RecordSubsetError(errorType string) {
	if !enabled.Load() {
		return
	}
	SubsetErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetDecision publishes the outcome of the last consensus decision.
func SetDecision(candidates, wrongShares int, agreement float64) {
	if !enabled.Load() {
		return
	}
	CandidateSecrets.Set(float64(candidates))
	WrongShares.Set(float64(wrongShares))
	AgreementRatio.Set(agreement)
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
