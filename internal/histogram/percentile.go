package histogram

import "math"

// Resolve finds the percentile-clipped bin bounds of one channel's counts.
//
// clip is the number of samples to exclude from each tail. The low bound is
// the first bin, scanning upward from index 0, at which the running
// cumulative count exceeds clip; the high bound is found the same way
// scanning downward from the last bin. Each scan is independent, so heavy
// clipping of a sparse histogram can legitimately cross over and degenerate
// to a boundary bin: if a scan reaches the opposite end without ever
// exceeding clip, that boundary bin is returned.
//
// A histogram with no samples at all never reaches Resolve, the caller
// substitutes the full bin domain instead.
func Resolve(counts []uint64, clip uint64) (low, high int) {
	low = len(counts) - 1
	var cum uint64
	for i, c := range counts {
		cum += c
		if cum > clip {
			low = i
			break
		}
	}

	high = 0
	cum = 0
	for i := len(counts) - 1; i >= 0; i-- {
		cum += counts[i]
		if cum > clip {
			high = i
			break
		}
	}
	return low, high
}

// ClipCount converts a percentile (0-100, the fraction of samples excluded
// from each tail) into an absolute sample count for Resolve.
func ClipCount(total uint64, percentile float64) uint64 {
	if percentile <= 0 {
		return 0
	}
	return uint64(float64(total) * percentile / 100.0)
}

// Extrema tracks per-channel minimum and maximum over a stream of samples,
// ignoring non-finite values. It backs the first pass of a continuous-domain
// scan.
type Extrema struct {
	min  []float64
	max  []float64
	seen []bool
}

// NewExtrema allocates an extrema tracker for the given channel count.
func NewExtrema(channels int) *Extrema {
	return &Extrema{
		min:  make([]float64, channels),
		max:  make([]float64, channels),
		seen: make([]bool, channels),
	}
}

// NumChannels returns the number of channels tracked.
func (e *Extrema) NumChannels() int { return len(e.seen) }

// Observe folds one sample into the running bounds. NaN and infinities are
// dropped, matching the accumulator's treatment in the second pass.
func (e *Extrema) Observe(channel int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !e.seen[channel] {
		e.min[channel], e.max[channel] = v, v
		e.seen[channel] = true
		return
	}
	if v < e.min[channel] {
		e.min[channel] = v
	}
	if v > e.max[channel] {
		e.max[channel] = v
	}
}

// Bounds returns the observed minimum and maximum for one channel. ok is
// false when no finite sample was ever observed, in which case both bounds
// are zero.
func (e *Extrema) Bounds(channel int) (min, max float64, ok bool) {
	if !e.seen[channel] {
		return 0, 0, false
	}
	return e.min[channel], e.max[channel], true
}
