package histogram

import (
	"math"
	"testing"
)

func TestResolve_SingleBinMass(t *testing.T) {
	counts := make([]uint64, 256)
	counts[42] = 1000

	low, high := Resolve(counts, 10)
	if low != 42 || high != 42 {
		t.Errorf("single-bin mass: got (%d, %d), want (42, 42)", low, high)
	}
}

func TestResolve_ZeroClip(t *testing.T) {
	// With no clipping the bounds are the lowest and highest nonzero bins.
	counts := make([]uint64, 256)
	counts[10] = 3
	counts[100] = 7
	counts[200] = 1

	low, high := Resolve(counts, 0)
	if low != 10 {
		t.Errorf("low: got %d, want 10", low)
	}
	if high != 200 {
		t.Errorf("high: got %d, want 200", high)
	}
}

func TestResolve_ClipExcludesTails(t *testing.T) {
	counts := make([]uint64, 10)
	for i := range counts {
		counts[i] = 10 // 100 samples total
	}

	// Clipping 15 samples per tail excludes bins 0 and 9 entirely and
	// lands in the bin where the cumulative count first exceeds 15.
	low, high := Resolve(counts, 15)
	if low != 1 {
		t.Errorf("low: got %d, want 1", low)
	}
	if high != 8 {
		t.Errorf("high: got %d, want 8", high)
	}
}

func TestResolve_ClipBeyondTotalDegeneratesToBoundary(t *testing.T) {
	// A clip larger than the whole sample count never exceeds the
	// threshold, so each scan runs to the opposite boundary.
	counts := make([]uint64, 16)
	counts[7] = 5

	low, high := Resolve(counts, 100)
	if low != 15 {
		t.Errorf("low: got %d, want 15", low)
	}
	if high != 0 {
		t.Errorf("high: got %d, want 0", high)
	}
}

func TestClipCount(t *testing.T) {
	tests := []struct {
		name       string
		total      uint64
		percentile float64
		want       uint64
	}{
		{"zero percentile", 1000, 0, 0},
		{"negative percentile", 1000, -5, 0},
		{"one percent", 1000, 1, 10},
		{"fractional result truncates", 999, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClipCount(tt.total, tt.percentile); got != tt.want {
				t.Errorf("ClipCount(%d, %g) = %d, want %d", tt.total, tt.percentile, got, tt.want)
			}
		})
	}
}

func TestExtrema(t *testing.T) {
	e := NewExtrema(2)

	if _, _, ok := e.Bounds(0); ok {
		t.Error("Bounds before any sample should report ok=false")
	}

	e.Observe(0, 3.0)
	e.Observe(0, -1.0)
	e.Observe(0, 1.5)
	e.Observe(0, math.NaN())
	e.Observe(0, math.Inf(1))

	min, max, ok := e.Bounds(0)
	if !ok {
		t.Fatal("Bounds: ok=false after finite samples")
	}
	if min != -1.0 || max != 3.0 {
		t.Errorf("Bounds: got (%g, %g), want (-1, 3)", min, max)
	}

	// Channel 1 saw nothing.
	if _, _, ok := e.Bounds(1); ok {
		t.Error("untouched channel should report ok=false")
	}
}
