package export

import (
	"fmt"
	"image/png"
	"os"

	"github.com/slidekit/slide-export/internal/slide"
)

// MaskOptions configures the label-mask flavor.
type MaskOptions struct {
	OutputDir  string
	Downsample float64
	Channel    int // channel carrying the labels, usually 0
}

// Mask writes one channel as a grayscale label mask, 8- or 16-bit
// depending on the source depth. Label values must be exact, so the mask
// flavor refuses float-domain images rather than quantizing them.
type Mask struct {
	Opts MaskOptions
}

func (m Mask) Name() string { return "mask" }

func (m Mask) Export(res slide.Resource, name string) error {
	if res.IsFloat() {
		return incompatible(m.Name(), "label masks require an integer pixel domain")
	}
	if m.Opts.Channel < 0 || m.Opts.Channel >= len(res.Channels()) {
		return incompatible(m.Name(), "image has no channel %d", m.Opts.Channel)
	}

	plane, err := readWhole(res, m.Opts.Downsample)
	if err != nil {
		return err
	}

	img := grayImage(plane, m.Opts.Channel, res.BitsPerSample())
	path, err := outputPath(m.Opts.OutputDir, name, ".png")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
