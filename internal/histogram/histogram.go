// Package histogram provides the fixed-size per-channel count arrays and
// percentile resolution behind the global range scanner.
//
// Two accumulator shapes cover the two pixel domains the toolkit meets:
// Discrete bins integer samples directly (one bin per possible value, 256
// or 65536 bins depending on bit depth), while Continuous bins floating
// point samples into a fixed number of bins whose width is derived from a
// prior min/max pass. Either way memory is bounded by channels x binCount,
// independent of image size or batch length.
//
// Accumulators are not safe for concurrent writers; the scanner feeds them
// from a single goroutine.
package histogram

import "math"

// ContinuousBins is the bin count used for floating point pixel domains.
const ContinuousBins = 10000

// Discrete accumulates integer samples, one bin per value.
type Discrete struct {
	bins   int
	counts [][]uint64
}

// NewDiscrete allocates a discrete histogram with the given channel and bin
// counts.
func NewDiscrete(channels, bins int) *Discrete {
	h := &Discrete{bins: bins, counts: make([][]uint64, channels)}
	for c := range h.counts {
		h.counts[c] = make([]uint64, bins)
	}
	return h
}

// Bins returns the number of bins per channel.
func (h *Discrete) Bins() int { return h.bins }

// NumChannels returns the number of channels.
func (h *Discrete) NumChannels() int { return len(h.counts) }

// Add records one sample. Values outside [0, bins) are dropped silently:
// samples come from fixed-bit-depth pixels and are defined to fit, so an
// out-of-range value carries no information worth failing over.
func (h *Discrete) Add(channel, value int) {
	if value < 0 || value >= h.bins {
		return
	}
	h.counts[channel][value]++
}

// Counts returns the bin counts for one channel. The slice is the live
// backing array, callers must not mutate it.
func (h *Discrete) Counts(channel int) []uint64 { return h.counts[channel] }

// Total returns the number of samples recorded for one channel.
func (h *Discrete) Total(channel int) uint64 {
	var n uint64
	for _, c := range h.counts[channel] {
		n += c
	}
	return n
}

// Continuous accumulates floating point samples into fixed-width bins.
//
// The bin layout comes from a per-channel global minimum and maximum found
// in an earlier pass: bin i covers [min + i*width, min + (i+1)*width).
type Continuous struct {
	bins   int
	min    []float64
	width  []float64
	counts [][]uint64
}

// NewContinuous allocates a continuous histogram over the given per-channel
// bounds. A channel whose range is zero gets a bin width of 1.0 so that
// every sample lands in bin 0 rather than dividing by zero.
func NewContinuous(min, max []float64) *Continuous {
	h := &Continuous{
		bins:   ContinuousBins,
		min:    make([]float64, len(min)),
		width:  make([]float64, len(min)),
		counts: make([][]uint64, len(min)),
	}
	for c := range min {
		h.min[c] = min[c]
		w := (max[c] - min[c]) / float64(h.bins)
		if w <= 0 {
			w = 1.0
		}
		h.width[c] = w
		h.counts[c] = make([]uint64, h.bins)
	}
	return h
}

// Bins returns the number of bins per channel.
func (h *Continuous) Bins() int { return h.bins }

// NumChannels returns the number of channels.
func (h *Continuous) NumChannels() int { return len(h.counts) }

// Add records one sample, dropping non-finite values. Finite samples are
// clamped into the bin range so that values at or beyond the recorded
// global maximum land in the last bin.
func (h *Continuous) Add(channel int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	bin := int(math.Floor((v - h.min[channel]) / h.width[channel]))
	if bin < 0 {
		bin = 0
	}
	if bin >= h.bins {
		bin = h.bins - 1
	}
	h.counts[channel][bin]++
}

// Counts returns the bin counts for one channel.
func (h *Continuous) Counts(channel int) []uint64 { return h.counts[channel] }

// Total returns the number of samples recorded for one channel.
func (h *Continuous) Total(channel int) uint64 {
	var n uint64
	for _, c := range h.counts[channel] {
		n += c
	}
	return n
}

// BinWidth returns the bin width for one channel.
func (h *Continuous) BinWidth(channel int) float64 { return h.width[channel] }

// Value maps a bin index back to the sample value at its lower edge.
func (h *Continuous) Value(channel, bin int) float64 {
	return h.min[channel] + float64(bin)*h.width[channel]
}
