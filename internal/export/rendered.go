package export

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"

	"github.com/slidekit/slide-export/internal/slide"
)

// RenderedOptions configures the rendered-overlay flavor.
type RenderedOptions struct {
	OutputDir  string
	Format     string  // "png" (default) or "jpeg"
	Downsample float64 // read scale, values below 1 treated as 1
	Gamma      float64 // applied when > 0 and != 1

	// Ranges supplies per-channel display ranges, typically the output of
	// a global range scan. Channels without an entry fall back to the full
	// native domain (or, for float images, the plane's own extent).
	Ranges []slide.ChannelRange
}

// Rendered flattens every channel into a single RGB overlay, scaling each
// channel by its display range and tinting it with its display color.
// Overlapping channels combine with screen blending, the usual choice for
// fluorescence composites since it saturates rather than clips.
type Rendered struct {
	Opts RenderedOptions
}

func (r Rendered) Name() string { return "rendered" }

// Export writes the overlay as <name>.<format> in the output directory.
func (r Rendered) Export(res slide.Resource, name string) error {
	channels := res.Channels()
	if len(channels) == 0 {
		return incompatible(r.Name(), "image has no channels")
	}

	plane, err := readWhole(res, r.Opts.Downsample)
	if err != nil {
		return err
	}

	var out image.Image
	for c := range channels {
		rng := r.channelRange(res, plane, c, channels[c])
		layer := channelLayer(plane, c, rng)
		if out == nil {
			out = layer
		} else {
			out = blend.Screen(out, layer)
		}
	}

	if r.Opts.Gamma > 0 && r.Opts.Gamma != 1 {
		out = adjust.Gamma(out, r.Opts.Gamma)
	}

	format := r.Opts.Format
	if format == "" {
		format = "png"
	}
	path, err := outputPath(r.Opts.OutputDir, name, "."+format)
	if err != nil {
		return err
	}
	if err := imaging.Save(out, path, imaging.JPEGQuality(92)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// channelRange picks the display range for one channel: the caller's
// precomputed range when present, otherwise the channel's full native
// domain. Float images have no native domain, so the fallback is the
// extent of the samples actually read.
func (r Rendered) channelRange(res slide.Resource, plane *slide.Plane, c int, ch slide.Channel) slide.ChannelRange {
	if c < len(r.Opts.Ranges) {
		return r.Opts.Ranges[c]
	}
	rng := slide.ChannelRange{Name: ch.Name, Color: ch.Color, MinDisplay: 0, MaxDisplay: 255}
	if res.IsFloat() {
		lo, hi := planeExtent(plane, c)
		rng.MinDisplay, rng.MaxDisplay = lo, hi
	} else if res.BitsPerSample() > 8 {
		rng.MaxDisplay = 65535
	}
	if rng.MaxDisplay <= rng.MinDisplay {
		rng.MaxDisplay = rng.MinDisplay + 1
	}
	return rng
}

func planeExtent(p *slide.Plane, channel int) (lo, hi float64) {
	first := true
	for _, v := range p.Samples[channel] {
		if v != v { // NaN
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// channelLayer renders one channel as a tinted 8-bit layer.
func channelLayer(p *slide.Plane, channel int, rng slide.ChannelRange) *image.NRGBA {
	cr, cg, cb := slide.UnpackColor(rng.Color)
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			n := rng.Normalize(p.At(channel, x, y))
			if n != n { // NaN sample, render as background
				n = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(n*float64(cr) + 0.5),
				G: uint8(n*float64(cg) + 0.5),
				B: uint8(n*float64(cb) + 0.5),
				A: 255,
			})
		}
	}
	return img
}
