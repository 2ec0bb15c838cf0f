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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewResourceSampler(t *testing.T) {
	sampler := NewResourceSampler(context.Background(), 0)

	if sampler == nil {
		t.Fatal("Expected sampler to be created")
	}
	if sampler.interval != time.Second {
		t.Errorf("Expected default interval 1s, got %v", sampler.interval)
	}

	go sampler.Start()
	sampler.Stop()
}

func TestResourceSamplerPublishesPeaks(t *testing.T) {
	Enable()

	PeakGoroutines.Set(0)
	PeakHeapBytes.Set(0)

	sampler := StartResourceSampler(context.Background(), 10*time.Millisecond)

	// Park a few goroutines so the peak is above the baseline.
	release := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() { <-release }()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)

	sampler.Stop()

	g, heap := sampler.Peaks()
	if g < 6 {
		t.Errorf("Expected peak goroutines >= 6, got %d", g)
	}
	if heap == 0 {
		t.Error("Expected non-zero peak heap")
	}
	if got := testutil.ToFloat64(PeakGoroutines); got != float64(g) {
		t.Errorf("Expected gauge %d, got %v", g, got)
	}
	if got := testutil.ToFloat64(PeakHeapBytes); got == 0 {
		t.Error("Expected heap gauge to be set")
	}
}

func TestResourceSamplerDisabled(t *testing.T) {
	Disable()
	defer Enable()

	PeakGoroutines.Set(0)

	sampler := StartResourceSampler(context.Background(), time.Second)
	sampler.Stop()

	if got := testutil.ToFloat64(PeakGoroutines); got != 0 {
		t.Errorf("Expected gauge untouched while disabled, got %v", got)
	}
}

func TestResourceSamplerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sampler := NewResourceSampler(ctx, time.Second)

	done := make(chan struct{})
	go func() {
		sampler.Start()
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Sampler did not stop after context cancellation")
	}
	sampler.Stop()
}
