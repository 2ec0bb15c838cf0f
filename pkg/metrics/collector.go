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

package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// ResourceSampler samples goroutine count and heap size while a run is in
// progress and publishes the peaks.
type ResourceSampler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	done     chan struct{}

	mu             sync.Mutex
	peakGoroutines int
	peakHeap       uint64
}

// NewResourceSampler creates a sampler that takes a sample every interval.
//
// Example:
//
//	sampler := metrics.NewResourceSampler(ctx, time.Second)
//	go sampler.Start()
//	defer sampler.Stop()
func NewResourceSampler(ctx context.Context, interval time.Duration) *ResourceSampler {
	if interval <= 0 {
		interval = time.Second
	}
	samplerCtx, cancel := context.WithCancel(ctx)
	return &ResourceSampler{
		ctx:      samplerCtx,
		cancel:   cancel,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start samples until Stop is called or the parent context is cancelled.
// It blocks and should typically be run in a goroutine.
func (rs *ResourceSampler) Start() {
	defer close(rs.done)

	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	rs.sample()
	for {
		select {
		case <-rs.ctx.Done():
			return
		case <-ticker.C:
			rs.sample()
		}
	}
}

// Stop halts sampling, takes a final sample and publishes the peaks. It
// waits for Start to return, so Start must have been called.
func (rs *ResourceSampler) Stop() {
	rs.cancel()
	<-rs.done
	rs.sample()
	rs.publish()
}

// Peaks returns the highest goroutine count and heap size observed.
func (rs *ResourceSampler) Peaks() (goroutines int, heapBytes uint64) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.peakGoroutines, rs.peakHeap
}

func (rs *ResourceSampler) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	g := runtime.NumGoroutine()

	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.peakGoroutines = max(rs.peakGoroutines, g)
	rs.peakHeap = max(rs.peakHeap, memStats.HeapAlloc)
}

func (rs *ResourceSampler) publish() {
	if !IsEnabled() {
		return
	}
	g, heap := rs.Peaks()
	PeakGoroutines.Set(float64(g))
	PeakHeapBytes.Set(float64(heap))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	GCPauseTotalSeconds.Set(float64(memStats.PauseTotalNs) / 1e9)
}

// StartResourceSampler creates a sampler and starts it in the background.
func StartResourceSampler(ctx context.Context, interval time.Duration) *ResourceSampler {
	sampler := NewResourceSampler(ctx, interval)
	go sampler.Start()
	return sampler
}
