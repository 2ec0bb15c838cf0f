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

package correlation

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithRunID(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		runID string
		want  string
	}{
		{
			name:  "Add run ID to context",
			ctx:   context.Background(),
			runID: "test-run-id",
			want:  "test-run-id",
		},
		{
			name:  "Add run ID to nil context",
			ctx:   nil,
			runID: "test-run-id-2",
			want:  "test-run-id-2",
		},
		{
			name:  "Add empty run ID",
			ctx:   context.Background(),
			runID: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithRunID(tt.ctx, tt.runID)
			if ctx == nil {
				t.Fatal("WithRunID returned nil context")
			}
			if got := RunID(ctx); got != tt.want {
				t.Errorf("RunID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunID_Missing(t *testing.T) {
	if got := RunID(context.Background()); got != "" {
		t.Errorf("RunID() = %v, want empty", got)
	}
	//nolint:staticcheck // nil context is handled explicitly
	if got := RunID(nil); got != "" {
		t.Errorf("RunID(nil) = %v, want empty", got)
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewID() = %q is not a UUID: %v", id, err)
	}
	if id == NewID() {
		t.Error("NewID() returned the same ID twice")
	}
}

func TestEnsure(t *testing.T) {
	ctx := Ensure(context.Background())
	id := RunID(ctx)
	if id == "" {
		t.Fatal("Ensure() did not attach a run ID")
	}
	if got := RunID(Ensure(ctx)); got != id {
		t.Errorf("Ensure() replaced existing run ID %q with %q", id, got)
	}
}
