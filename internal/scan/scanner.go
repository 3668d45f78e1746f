package scan

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/slidekit/slide-export/internal/histogram"
	"github.com/slidekit/slide-export/internal/metrics"
	"github.com/slidekit/slide-export/internal/slide"
)

// Options configures one scan invocation.
type Options struct {
	// ClipPercent is the fraction of samples, in percent, excluded from
	// each tail of the histogram when resolving a display range.
	ClipPercent float64

	// Downsample is the factor at which images are read during the scan.
	// Values below 1 are treated as 1. Higher is faster and coarser;
	// percentile estimation tolerates the sampling noise.
	Downsample float64

	// Progress, when non-nil, is invoked once per image per pass with the
	// number of units done and the total. A continuous-domain scan costs
	// two passes, so its total is twice the image count.
	Progress func(done, total int)
}

// Scanner computes global display ranges over batches of images.
type Scanner struct {
	opener slide.Opener
}

// New returns a Scanner reading images through the given opener.
func New(opener slide.Opener) *Scanner {
	return &Scanner{opener: opener}
}

// GlobalRanges scans every image in refs and returns one display range per
// channel of the reference (first) image.
//
// An empty input yields an empty result. Failure to open the reference
// image is fatal to the whole scan and also yields an empty result; the
// caller falls back to per-image display settings. Failures on any other
// image are logged and that image is skipped. Cancellation stops the scan
// between images and yields an empty result, since a partial histogram
// would produce ranges that are not actually global.
func (s *Scanner) GlobalRanges(ctx context.Context, refs []slide.Ref, opts Options) []slide.ChannelRange {
	if len(refs) == 0 {
		return nil
	}
	if opts.Downsample < 1 {
		opts.Downsample = 1
	}

	start := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	ref, err := s.opener.Open(refs[0])
	if err != nil {
		log.Printf("Range scan aborted: cannot open reference image %s: %v", refs[0].DisplayName(), err)
		return nil
	}
	channels := ref.Channels()
	bits := ref.BitsPerSample()
	isFloat := ref.IsFloat()
	if err := ref.Close(); err != nil {
		log.Printf("WARN: closing reference image %s: %v", refs[0].DisplayName(), err)
	}
	if len(channels) == 0 {
		log.Printf("Range scan aborted: reference image %s has no channels", refs[0].DisplayName())
		return nil
	}

	if isFloat {
		return s.scanContinuous(ctx, refs, channels, opts)
	}
	return s.scanDiscrete(ctx, refs, channels, bits, opts)
}

// scanDiscrete fills exact per-value histograms in a single pass. The bin
// capacity comes from the reference image's bit depth.
func (s *Scanner) scanDiscrete(ctx context.Context, refs []slide.Ref, channels []slide.Channel, bits int, opts Options) []slide.ChannelRange {
	bins := 256
	if bits > 8 {
		bins = 65536
	}
	h := histogram.NewDiscrete(len(channels), bins)

	total := len(refs)
	for i, ref := range refs {
		if ctx.Err() != nil {
			log.Printf("Range scan cancelled after %d of %d images", i, total)
			return nil
		}
		s.sampleImage(ref, opts.Downsample, len(channels), func(c int, v float64) {
			h.Add(c, int(v))
		})
		report(opts, i+1, total)
	}

	ranges := make([]slide.ChannelRange, 0, len(channels))
	for c, ch := range channels {
		var lo, hi float64
		if totalSamples := h.Total(c); totalSamples == 0 {
			lo, hi = 0, float64(bins-1)
		} else {
			l, u := histogram.Resolve(h.Counts(c), histogram.ClipCount(totalSamples, opts.ClipPercent))
			lo, hi = float64(l), float64(u)
		}
		if hi <= lo {
			hi = lo + 1
		}
		ranges = append(ranges, slide.ChannelRange{Name: ch.Name, Color: ch.Color, MinDisplay: lo, MaxDisplay: hi})
	}
	return ranges
}

// scanContinuous runs the two-pass scheme for floating point domains:
// pass 1 discovers the true per-channel bounds, pass 2 bins every finite
// sample into a fixed-width histogram spanning them.
func (s *Scanner) scanContinuous(ctx context.Context, refs []slide.Ref, channels []slide.Channel, opts Options) []slide.ChannelRange {
	total := len(refs) * 2

	ext := histogram.NewExtrema(len(channels))
	for i, ref := range refs {
		if ctx.Err() != nil {
			log.Printf("Range scan cancelled during min/max pass after %d of %d images", i, len(refs))
			return nil
		}
		s.sampleImage(ref, opts.Downsample, len(channels), ext.Observe)
		report(opts, i+1, total)
	}

	mins := make([]float64, len(channels))
	maxs := make([]float64, len(channels))
	for c := range channels {
		mins[c], maxs[c], _ = ext.Bounds(c)
	}
	h := histogram.NewContinuous(mins, maxs)

	for i, ref := range refs {
		if ctx.Err() != nil {
			log.Printf("Range scan cancelled during histogram pass after %d of %d images", i, len(refs))
			return nil
		}
		s.sampleImage(ref, opts.Downsample, len(channels), h.Add)
		report(opts, len(refs)+i+1, total)
	}

	ranges := make([]slide.ChannelRange, 0, len(channels))
	for c, ch := range channels {
		var lo, hi float64
		if totalSamples := h.Total(c); totalSamples == 0 {
			lo, hi = h.Value(c, 0), h.Value(c, h.Bins()-1)
		} else {
			l, u := histogram.Resolve(h.Counts(c), histogram.ClipCount(totalSamples, opts.ClipPercent))
			lo, hi = h.Value(c, l), h.Value(c, u)
		}
		if hi <= lo {
			hi = lo + h.BinWidth(c)
		}
		ranges = append(ranges, slide.ChannelRange{Name: ch.Name, Color: ch.Color, MinDisplay: lo, MaxDisplay: hi})
	}
	return ranges
}

// sampleImage opens one image, reads it whole at the scan downsample, and
// feeds every sample to fn. The channel count is capped at maxChannels so
// an image whose layout differs slightly from the reference contributes
// only the channels both have. Failures are logged and swallowed; a
// missing image just thins the sample.
func (s *Scanner) sampleImage(ref slide.Ref, downsample float64, maxChannels int, fn func(channel int, v float64)) {
	plane, err := s.readWhole(ref, downsample)
	if err != nil {
		log.Printf("WARN: range scan skipping %s: %v", ref.DisplayName(), err)
		metrics.ScanImages.WithLabelValues(metrics.ScanSkipped).Inc()
		return
	}
	metrics.ScanImages.WithLabelValues(metrics.ScanScanned).Inc()

	n := plane.NumChannels()
	if n > maxChannels {
		n = maxChannels
	}
	for c := 0; c < n; c++ {
		for _, v := range plane.Samples[c] {
			fn(c, v)
		}
	}
}

func (s *Scanner) readWhole(ref slide.Ref, downsample float64) (*slide.Plane, error) {
	res, err := s.opener.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			log.Printf("WARN: closing %s: %v", ref.DisplayName(), cerr)
		}
	}()

	w, h := res.Size()
	plane, err := res.ReadRegion(downsample, image.Rect(0, 0, w, h))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return plane, nil
}

func report(opts Options, done, total int) {
	if opts.Progress != nil {
		opts.Progress(done, total)
	}
}
